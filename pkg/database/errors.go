package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE 错误码
const uniqueViolationCode = "23505"

// IsUniqueViolation 判断是否为唯一约束冲突
// 申请表 (user_id, program_id) 与用户表 external_id 的幂等保证依赖此判定：
// 并发插入撞上唯一索引时，以该冲突作为"记录已存在"的权威信号
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}

