package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/PriyanshuSingh9/enrollio/internal/api/middleware"
	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/service"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock IdentityService ──

type mockIdentityService struct {
	resolveOrCreateResult *model.User
	resolveOrCreateErr    error
	resolveResult         *model.User
	resolveErr            error
	updateResult          *dto.UserResponse
	updateErr             error
	assignErr             error
}

func (m *mockIdentityService) ResolveOrCreate(_ context.Context, _ *idtoken.Principal) (*model.User, error) {
	return m.resolveOrCreateResult, m.resolveOrCreateErr
}
func (m *mockIdentityService) Resolve(_ context.Context, _ string) (*model.User, error) {
	return m.resolveResult, m.resolveErr
}
func (m *mockIdentityService) UpdateProfile(_ context.Context, _ int64, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockIdentityService) AssignRole(_ context.Context, _ *model.User, _ int64, _ string) error {
	return m.assignErr
}

// ── Mock ProgramService ──

type mockProgramService struct {
	createResult *dto.ProgramResponse
	createErr    error
	getResult    *dto.ProgramResponse
	getErr       error
	listResult   []dto.ProgramResponse
	listTotal    int64
	listErr      error
}

func (m *mockProgramService) Create(_ context.Context, _ *model.User, _ *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockProgramService) GetWithFields(_ context.Context, _ int64) (*dto.ProgramResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockProgramService) ListActive(_ context.Context, _ *dto.ProgramListRequest) ([]dto.ProgramResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── Mock EnrollmentService ──

type mockEnrollmentService struct {
	state      *dto.WizardStateResponse
	err        error
	submitErr  error
	abandonErr error
}

func (m *mockEnrollmentService) Start(_ context.Context, _ *model.User, _ int64) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) Get(_ context.Context, _ *model.User, _ int64) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) Next(_ context.Context, _ *model.User, _ int64) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) Back(_ context.Context, _ *model.User, _ int64) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) UpdateForm(_ context.Context, _ *model.User, _ int64, _ *dto.WizardFormRequest) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) SetResponses(_ context.Context, _ *model.User, _ int64, _ *dto.WizardResponsesRequest) (*dto.WizardStateResponse, error) {
	return m.state, m.err
}
func (m *mockEnrollmentService) Submit(_ context.Context, _ *model.User, _ *idtoken.Principal, _ int64) (*dto.WizardStateResponse, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.state, nil
}
func (m *mockEnrollmentService) Abandon(_ context.Context, _ *model.User, _ int64) error {
	return m.abandonErr
}

// ── Mock ApplicationService ──

type mockApplicationService struct {
	submitResult *dto.SubmitResult
	submitErr    error
	mineResult   []dto.ApplicationResponse
	mineErr      error
	listResult   []dto.ApplicationResponse
	listTotal    int64
	listErr      error
	reviewResult *dto.ApplicationResponse
	reviewErr    error
}

func (m *mockApplicationService) Submit(_ context.Context, _ *idtoken.Principal, _ int64, _ []dto.FieldResponse) (*dto.SubmitResult, error) {
	return m.submitResult, m.submitErr
}
func (m *mockApplicationService) ListMine(_ context.Context, _ int64) ([]dto.ApplicationResponse, error) {
	return m.mineResult, m.mineErr
}
func (m *mockApplicationService) ListByProgram(_ context.Context, _ *model.User, _ int64, _ *dto.PaginationRequest) ([]dto.ApplicationResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockApplicationService) Review(_ context.Context, _ *model.User, _ int64, _ string) (*dto.ApplicationResponse, error) {
	return m.reviewResult, m.reviewErr
}

// ── Mock ExportService ──

type mockExportService struct {
	xlsxBuf  *bytes.Buffer
	xlsxName string
	xlsxErr  error
	icsBuf   *bytes.Buffer
	icsName  string
	icsErr   error
}

func (m *mockExportService) ApplicantsXLSX(_ context.Context, _ *model.User, _ int64) (*bytes.Buffer, string, error) {
	return m.xlsxBuf, m.xlsxName, m.xlsxErr
}
func (m *mockExportService) ProgramICS(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.icsBuf, m.icsName, m.icsErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func testPrincipal() *idtoken.Principal {
	return &idtoken.Principal{
		GivenName:     "Jane",
		FamilyName:    "Doe",
		Email:         "jane@example.com",
		EmailVerified: true,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject: "ext-001",
		},
	}
}

func testUser() *model.User {
	return &model.User{
		ID: 10, ExternalID: "ext-001",
		Name: "Jane Doe", Email: "jane@example.com", Role: model.RoleUser,
	}
}

// injectPrincipal 模拟认证中间件注入主体
func injectPrincipal(p *idtoken.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.PrincipalKey, p)
		}
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Sync_Success(t *testing.T) {
	identity := &mockIdentityService{resolveOrCreateResult: testUser()}
	h := NewAuthHandler(identity)

	r := gin.New()
	r.POST("/auth/sync", injectPrincipal(testPrincipal()), h.Sync)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/sync", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code=0，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Sync_NoPrincipal(t *testing.T) {
	h := NewAuthHandler(&mockIdentityService{})

	r := gin.New()
	r.POST("/auth/sync", h.Sync) // 未经过认证中间件

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/sync", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10002 {
		t.Errorf("期望 code=10002，实际=%d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_GetMe_Success(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	h := NewUserHandler(identity)

	r := gin.New()
	r.GET("/users/me", injectPrincipal(testPrincipal()), h.GetMe)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
}

func TestUserHandler_GetMe_UnsyncedUser(t *testing.T) {
	identity := &mockIdentityService{resolveErr: service.ErrUserNotFound}
	h := NewUserHandler(identity)

	r := gin.New()
	r.GET("/users/me", injectPrincipal(testPrincipal()), h.GetMe)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("未同步用户期望 404，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12001 {
		t.Errorf("期望 code=12001，实际=%d", resp.Code)
	}
}

func TestUserHandler_UpdateMe_EmptyName(t *testing.T) {
	identity := &mockIdentityService{
		resolveResult: testUser(),
		updateErr:     service.ErrNameRequired,
	}
	h := NewUserHandler(identity)

	r := gin.New()
	r.PUT("/users/me", injectPrincipal(testPrincipal()), h.UpdateMe)

	name := " "
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/users/me", jsonBody(dto.UpdateProfileRequest{Name: &name}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12002 {
		t.Errorf("期望 code=12002，实际=%d", resp.Code)
	}
}

func TestUserHandler_AssignRole_Forbidden(t *testing.T) {
	identity := &mockIdentityService{
		resolveResult: testUser(),
		assignErr:     service.ErrNotAdmin,
	}
	h := NewUserHandler(identity)

	r := gin.New()
	r.PUT("/users/:id/role", injectPrincipal(testPrincipal()), h.AssignRole)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/users/2/role", jsonBody(dto.AssignRoleRequest{Role: "admin"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10003 {
		t.Errorf("期望 code=10003，实际=%d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ProgramHandler Tests
// ═══════════════════════════════════════════════════════════

func TestProgramHandler_List_RequiresType(t *testing.T) {
	h := NewProgramHandler(&mockIdentityService{}, &mockProgramService{}, &mockExportService{})

	r := gin.New()
	r.GET("/programs", h.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs", nil) // 缺少 type
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少 type 期望 400，实际=%d", w.Code)
	}
}

func TestProgramHandler_List_Success(t *testing.T) {
	program := &mockProgramService{
		listResult: []dto.ProgramResponse{{ID: 1, Title: "开源工作坊"}},
		listTotal:  1,
	}
	h := NewProgramHandler(&mockIdentityService{}, program, &mockExportService{})

	r := gin.New()
	r.GET("/programs", h.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs?type=event", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
}

func TestProgramHandler_Get_NotFound(t *testing.T) {
	program := &mockProgramService{getErr: service.ErrProgramNotFound}
	h := NewProgramHandler(&mockIdentityService{}, program, &mockExportService{})

	r := gin.New()
	r.GET("/programs/:id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13001 {
		t.Errorf("期望 code=13001，实际=%d", resp.Code)
	}
}

func TestProgramHandler_Create_MissingFields(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	program := &mockProgramService{createErr: service.ErrMissingFields}
	h := NewProgramHandler(identity, program, &mockExportService{})

	r := gin.New()
	r.POST("/programs", injectPrincipal(testPrincipal()), h.Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs", jsonBody(dto.CreateProgramRequest{Type: "event"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13002 {
		t.Errorf("期望 code=13002，实际=%d", resp.Code)
	}
}

func TestProgramHandler_Calendar_Success(t *testing.T) {
	export := &mockExportService{
		icsBuf:  bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		icsName: "program_1.ics",
	}
	h := NewProgramHandler(&mockIdentityService{}, &mockProgramService{}, export)

	r := gin.New()
	r.GET("/programs/:id/calendar.ics", h.Calendar)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/1/calendar.ics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("期望 text/calendar 内容类型，实际=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !bytes.Contains([]byte(cd), []byte("program_1.ics")) {
		t.Errorf("Content-Disposition 应携带文件名，实际=%s", cd)
	}
}

// ═══════════════════════════════════════════════════════════
// EnrollmentHandler Tests
// ═══════════════════════════════════════════════════════════

func wizardState(step string) *dto.WizardStateResponse {
	return &dto.WizardStateResponse{
		ProgramID: 1, Step: step, StepIndex: 1, StepCount: 4,
		Form:      map[string]dto.WizardFieldValue{"name": {Value: "Jane Doe", AutoFilled: true}},
		Responses: map[int64]string{},
	}
}

func setupEnrollmentRouter(enrollment *mockEnrollmentService) *gin.Engine {
	identity := &mockIdentityService{resolveResult: testUser()}
	h := NewEnrollmentHandler(identity, enrollment)

	r := gin.New()
	g := r.Group("/programs/:id/enrollment", injectPrincipal(testPrincipal()))
	g.POST("", h.Start)
	g.GET("", h.Get)
	g.POST("/next", h.Next)
	g.POST("/back", h.Back)
	g.PUT("/form", h.UpdateForm)
	g.POST("/submit", h.Submit)
	g.DELETE("", h.Abandon)
	return r
}

func TestEnrollmentHandler_Start_Success(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{state: wizardState(model.StepPersonalInfo)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/1/enrollment", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际=%d", w.Code)
	}
}

func TestEnrollmentHandler_Start_AlreadyApplied(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{err: service.ErrAlreadyApplied})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/1/enrollment", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("期望 409，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14001 {
		t.Errorf("期望 code=14001，实际=%d", resp.Code)
	}
}

func TestEnrollmentHandler_Get_NoSession(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{err: service.ErrNoSession})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/1/enrollment", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14003 {
		t.Errorf("期望 code=14003，实际=%d", resp.Code)
	}
}

func TestEnrollmentHandler_Next_AtLastStep(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{err: model.ErrWizardAtLastStep})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/1/enrollment/next", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14003 {
		t.Errorf("期望 code=14003，实际=%d", resp.Code)
	}
}

func TestEnrollmentHandler_Submit_PendingRejected(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{submitErr: model.ErrWizardSubmitPending})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/1/enrollment/submit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("期望 409，实际=%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14004 {
		t.Errorf("期望 code=14004，实际=%d", resp.Code)
	}
}

func TestEnrollmentHandler_Submit_InlineFailure(t *testing.T) {
	// 可恢复的提交失败：HTTP 200，失败结果在 state.Result 内联返回
	state := wizardState(model.StepReview)
	state.FailureReason = "提交申请失败，请稍后重试"
	state.Result = &dto.SubmitResult{Success: false, Message: "提交申请失败，请稍后重试"}
	r := setupEnrollmentRouter(&mockEnrollmentService{state: state})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/1/enrollment/submit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("可恢复失败期望 200，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("期望 code=0，实际=%d", resp.Code)
	}
}

func TestEnrollmentHandler_UpdateForm_Success(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{state: wizardState(model.StepPersonalInfo)})

	course := "M.Tech"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/programs/1/enrollment/form", jsonBody(dto.WizardFormRequest{Course: &course}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
}

func TestEnrollmentHandler_InvalidProgramID(t *testing.T) {
	r := setupEnrollmentRouter(&mockEnrollmentService{state: wizardState(model.StepPersonalInfo)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/abc/enrollment", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("非数字项目 ID 期望 400，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ApplicationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestApplicationHandler_ListMine_Success(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	application := &mockApplicationService{
		mineResult: []dto.ApplicationResponse{{ID: 1, Status: model.StatusPending}},
	}
	h := NewApplicationHandler(identity, application, &mockExportService{})

	r := gin.New()
	r.GET("/applications/my", injectPrincipal(testPrincipal()), h.ListMine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/applications/my", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
}

func TestApplicationHandler_Review_NotOwner(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	application := &mockApplicationService{reviewErr: service.ErrNotOwner}
	h := NewApplicationHandler(identity, application, &mockExportService{})

	r := gin.New()
	r.PUT("/applications/:id/status", injectPrincipal(testPrincipal()), h.Review)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/applications/1/status", jsonBody(dto.ReviewRequest{Status: "accepted"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际=%d", w.Code)
	}
}

func TestApplicationHandler_Review_InvalidStatus(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	h := NewApplicationHandler(identity, &mockApplicationService{}, &mockExportService{})

	r := gin.New()
	r.PUT("/applications/:id/status", injectPrincipal(testPrincipal()), h.Review)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/applications/1/status", jsonBody(dto.ReviewRequest{Status: "bogus"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法状态期望 400，实际=%d", w.Code)
	}
}

func TestApplicationHandler_ExportApplicants_Success(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	export := &mockExportService{
		xlsxBuf:  bytes.NewBufferString("PK\x03\x04"),
		xlsxName: "applicants_1_20260901.xlsx",
	}
	h := NewApplicationHandler(identity, &mockApplicationService{}, export)

	r := gin.New()
	r.GET("/programs/:id/applications/export", injectPrincipal(testPrincipal()), h.ExportApplicants)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/1/applications/export", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("期望 xlsx 内容类型，实际=%s", ct)
	}
}

func TestApplicationHandler_ExportApplicants_Empty(t *testing.T) {
	identity := &mockIdentityService{resolveResult: testUser()}
	export := &mockExportService{xlsxErr: service.ErrExportNoApplicants}
	h := NewApplicationHandler(identity, &mockApplicationService{}, export)

	r := gin.New()
	r.GET("/programs/:id/applications/export", injectPrincipal(testPrincipal()), h.ExportApplicants)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/programs/1/applications/export", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
}
