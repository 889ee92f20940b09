package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"opsmanual/internal/common"
	"opsmanual/internal/models"
	"opsmanual/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

type request struct {
	method      string
	route       string
	target      string
	body        io.Reader
	contentType string
	identity    *models.Identity
}

func serve(t *testing.T, r request, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler(false)
	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.identity != nil {
				c.SetRequest(c.Request().WithContext(common.WithIdentity(c.Request().Context(), r.identity)))
			}
			return next(c)
		}
	}
	e.Add(r.method, r.route, h, inject)

	req := httptest.NewRequest(r.method, r.target, r.body)
	if r.contentType != "" {
		req.Header.Set(echo.HeaderContentType, r.contentType)
	} else if r.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func identityFor(role models.Role, airlineID *uuid.UUID) *models.Identity {
	return &models.Identity{UserID: uuid.New(), Email: "user@example.com", Role: role, AirlineID: airlineID}
}

func TestLogin(t *testing.T) {
	t.Run("normalises email and returns tokens", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("Login", mock.Anything, "pilot@example.com", "secret1").
			Return(&models.TokenResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}, nil)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/login", target: "/auth/login",
			body: jsonBody(`{"email":" Pilot@Example.com ","password":"secret1"}`),
		}, NewAuthHandlers(auth).Login)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		var tokens models.TokenResponse
		require.NoError(t, json.Unmarshal(env.Data, &tokens))
		assert.Equal(t, "refresh", tokens.RefreshToken)
		assert.Equal(t, 900, tokens.ExpiresIn)
		auth.AssertExpectations(t)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		auth := new(MockAuthService)
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/login", target: "/auth/login",
			body: jsonBody(`{"email":"not-an-email","password":"secret1"}`),
		}, NewAuthHandlers(auth).Login)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Error.Code)
		auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects short password", func(t *testing.T) {
		auth := new(MockAuthService)
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/login", target: "/auth/login",
			body: jsonBody(`{"email":"pilot@example.com","password":"12345"}`),
		}, NewAuthHandlers(auth).Login)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "password")
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("Login", mock.Anything, "pilot@example.com", "wrongpass").Return(nil, common.ErrInvalidCredentials)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/login", target: "/auth/login",
			body: jsonBody(`{"email":"pilot@example.com","password":"wrongpass"}`),
		}, NewAuthHandlers(auth).Login)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/login", target: "/auth/login",
			body: jsonBody(`{"email":`),
		}, NewAuthHandlers(new(MockAuthService)).Login)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("token required", func(t *testing.T) {
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/refresh", target: "/auth/refresh",
			body: jsonBody(`{}`),
		}, NewAuthHandlers(new(MockAuthService)).Refresh)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "refresh_token")
	})

	t.Run("revoked token", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("Refresh", mock.Anything, "stale").Return(nil, common.ErrInvalidRefreshToken)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/refresh", target: "/auth/refresh",
			body: jsonBody(`{"refresh_token":"stale"}`),
		}, NewAuthHandlers(auth).Refresh)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, rec).Error.Code)
	})

	t.Run("issues access token", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("Refresh", mock.Anything, "good").
			Return(&models.AccessTokenResponse{AccessToken: "new-access", TokenType: "Bearer", ExpiresIn: 900}, nil)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/refresh", target: "/auth/refresh",
			body: jsonBody(`{"refresh_token":"good"}`),
		}, NewAuthHandlers(auth).Refresh)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "new-access")
	})
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Logout", mock.Anything, "").Return(nil)

	rec := serve(t, request{
		method: http.MethodPost, route: "/auth/logout", target: "/auth/logout",
	}, NewAuthHandlers(auth).Logout)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decodeEnvelope(t, rec).Message)
	auth.AssertExpectations(t)
}

func TestRequestPasswordReset(t *testing.T) {
	t.Run("failures are not disclosed", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("RequestPasswordReset", mock.Anything, "crew@example.com").Return(errors.New("db down"))

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/password-reset-request", target: "/auth/password-reset-request",
			body: jsonBody(`{"email":"crew@example.com"}`),
		}, NewAuthHandlers(auth).RequestPasswordReset)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "If the email exists, a reset link has been sent", decodeEnvelope(t, rec).Message)
	})

	t.Run("email validated", func(t *testing.T) {
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/password-reset-request", target: "/auth/password-reset-request",
			body: jsonBody(`{"email":""}`),
		}, NewAuthHandlers(new(MockAuthService)).RequestPasswordReset)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("new password too short", func(t *testing.T) {
		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/password-reset", target: "/auth/password-reset",
			body: jsonBody(`{"token":"abc","new_password":"1234567"}`),
		}, NewAuthHandlers(new(MockAuthService)).ResetPassword)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "new_password")
	})

	t.Run("expired token", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("ResetPassword", mock.Anything, "abc", "longenough").Return(common.ErrInvalidOrExpiredToken)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/password-reset", target: "/auth/password-reset",
			body: jsonBody(`{"token":"abc","new_password":"longenough"}`),
		}, NewAuthHandlers(auth).ResetPassword)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", decodeError(t, rec).Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("ResetPassword", mock.Anything, "abc", "longenough").Return(nil)

		rec := serve(t, request{
			method: http.MethodPost, route: "/auth/password-reset", target: "/auth/password-reset",
			body: jsonBody(`{"token":"abc","new_password":"longenough"}`),
		}, NewAuthHandlers(auth).ResetPassword)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Password reset successfully", decodeEnvelope(t, rec).Message)
	})
}

func TestMe(t *testing.T) {
	identity := identityFor(models.RoleViewer, nil)
	auth := new(MockAuthService)
	auth.On("CurrentUser", mock.Anything, identity.UserID).
		Return(&models.UserProfile{ID: identity.UserID, Email: identity.Email, Role: models.RoleViewer, IsActive: true}, nil)

	rec := serve(t, request{method: http.MethodGet, route: "/auth/me", target: "/auth/me", identity: identity}, NewAuthHandlers(auth).Me)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), identity.UserID.String())

	rec = serve(t, request{method: http.MethodGet, route: "/auth/me", target: "/auth/me"}, NewAuthHandlers(auth).Me)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAirlines_IncludeInactive(t *testing.T) {
	identity := identityFor(models.RoleSuperAdmin, nil)
	svc := new(MockAirlineService)
	svc.On("List", mock.Anything, identity, true).Return([]*models.Airline{{ID: uuid.New(), Code: "TAP"}, {ID: uuid.New(), Code: "LUX"}}, nil)

	rec := serve(t, request{method: http.MethodGet, route: "/airlines", target: "/airlines?includeInactive=true", identity: identity},
		NewAirlineHandlers(svc).ListAirlines)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	svc.AssertExpectations(t)
}

func TestGetAirline_InvalidID(t *testing.T) {
	rec := serve(t, request{
		method: http.MethodGet, route: "/airlines/:airline_id", target: "/airlines/not-a-uuid",
		identity: identityFor(models.RoleEditor, nil),
	}, NewAirlineHandlers(new(MockAirlineService)).GetAirline)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Details, "airline_id")
}

func TestCreateAirline(t *testing.T) {
	svc := new(MockAirlineService)
	svc.On("Create", mock.Anything, &services.CreateAirlineRequest{Code: "tp", Name: "TAP"}).
		Return(&models.Airline{ID: uuid.New(), Code: "TP", Name: "TAP", IsActive: true}, nil)

	rec := serve(t, request{
		method: http.MethodPost, route: "/airlines", target: "/airlines",
		body: jsonBody(`{"code":"tp","name":"TAP"}`), identity: identityFor(models.RoleSuperAdmin, nil),
	}, NewAirlineHandlers(svc).CreateAirline)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteAirline_Conflict(t *testing.T) {
	id := uuid.New()
	svc := new(MockAirlineService)
	svc.On("Delete", mock.Anything, id).Return(common.NewConflictError("Airline still has users"))

	rec := serve(t, request{
		method: http.MethodDelete, route: "/airlines/:airline_id", target: "/airlines/" + id.String(),
		identity: identityFor(models.RoleSuperAdmin, nil),
	}, NewAirlineHandlers(svc).DeleteAirline)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeactivateAirline(t *testing.T) {
	id := uuid.New()
	svc := new(MockAirlineService)
	svc.On("SetActive", mock.Anything, id, false).Return(&models.Airline{ID: id, IsActive: false}, nil)

	rec := serve(t, request{
		method: http.MethodPost, route: "/airlines/:airline_id/deactivate", target: "/airlines/" + id.String() + "/deactivate",
		identity: identityFor(models.RoleSuperAdmin, nil),
	}, NewAirlineHandlers(svc).DeactivateAirline)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func logoForm(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="logo.png"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadLogo(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleEditor, &airlineID)
	data := []byte("\x89PNG fake image")

	t.Run("passes file metadata to the service", func(t *testing.T) {
		svc := new(MockAirlineService)
		svc.On("UploadLogo", mock.Anything, identity, airlineID, mock.MatchedBy(func(u *services.LogoUpload) bool {
			return u.Filename == "logo.png" && u.ContentType == "image/png" && u.Size == int64(len(data))
		})).Return(&models.Airline{ID: airlineID, Branding: map[string]any{"logoUrl": "http://cdn/logo.png"}}, nil)

		body, ct := logoForm(t, "logo", "image/png", data)
		rec := serve(t, request{
			method: http.MethodPost, route: "/airlines/:airline_id/logo", target: "/airlines/" + airlineID.String() + "/logo",
			body: body, contentType: ct, identity: identity,
		}, NewAirlineHandlers(svc).UploadLogo)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "logoUrl")
		svc.AssertExpectations(t)
	})

	t.Run("file field required", func(t *testing.T) {
		body, ct := logoForm(t, "image", "image/png", data)
		rec := serve(t, request{
			method: http.MethodPost, route: "/airlines/:airline_id/logo", target: "/airlines/" + airlineID.String() + "/logo",
			body: body, contentType: ct, identity: identity,
		}, NewAirlineHandlers(new(MockAirlineService)).UploadLogo)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "logo")
	})
}

func TestListUsers_QueryFilter(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleSuperAdmin, nil)
	svc := new(MockUserService)
	svc.On("List", mock.Anything, identity, services.UserListFilter{
		AirlineID: &airlineID, IncludeInactive: true, Limit: 20, Offset: 40,
	}).Return([]*models.UserProfile{}, nil)

	rec := serve(t, request{
		method: http.MethodGet, route: "/users",
		target:   "/users?airline_id=" + airlineID.String() + "&include_inactive=1&limit=20&offset=40",
		identity: identity,
	}, NewUserHandlers(svc).ListUsers)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	svc.AssertExpectations(t)
}

func TestListUsers_InvalidAirlineFilter(t *testing.T) {
	rec := serve(t, request{
		method: http.MethodGet, route: "/users", target: "/users?airline_id=nope",
		identity: identityFor(models.RoleSuperAdmin, nil),
	}, NewUserHandlers(new(MockUserService)).ListUsers)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser_Deactivates(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleAdmin, &airlineID)
	target := uuid.New()
	svc := new(MockUserService)
	svc.On("Deactivate", mock.Anything, identity, target).Return(nil)

	rec := serve(t, request{
		method: http.MethodDelete, route: "/users/:user_id", target: "/users/" + target.String(), identity: identity,
	}, NewUserHandlers(svc).DeleteUser)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deactivated successfully", decodeEnvelope(t, rec).Message)
	svc.AssertExpectations(t)
}

func TestChangePassword_Forbidden(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleViewer, &airlineID)
	target := uuid.New()
	svc := new(MockUserService)
	svc.On("ChangePassword", mock.Anything, identity, target, "newsecret").Return(common.ErrForbidden)

	rec := serve(t, request{
		method: http.MethodPut, route: "/users/:user_id/password", target: "/users/" + target.String() + "/password",
		body: jsonBody(`{"password":"newsecret"}`), identity: identity,
	}, NewUserHandlers(svc).ChangePassword)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Error.Code)
}

func TestListChapters_AirlineFilter(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleSuperAdmin, nil)
	svc := new(MockManualService)
	svc.On("ListChapters", mock.Anything, identity, &airlineID, false).
		Return([]*models.Chapter{{ID: uuid.New(), AirlineID: airlineID, Title: "Normal Procedures"}}, nil)

	rec := serve(t, request{
		method: http.MethodGet, route: "/chapters", target: "/chapters?airline_id=" + airlineID.String(), identity: identity,
	}, NewManualHandlers(svc).ListChapters)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Normal Procedures")
	svc.AssertExpectations(t)
}

func TestGetChapter_CrossTenant(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleViewer, &airlineID)
	id := uuid.New()
	svc := new(MockManualService)
	svc.On("GetChapter", mock.Anything, identity, id).Return(nil, common.ErrForbidden)

	rec := serve(t, request{
		method: http.MethodGet, route: "/chapters/:chapter_id", target: "/chapters/" + id.String(), identity: identity,
	}, NewManualHandlers(svc).GetChapter)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateSection_UsesPathChapter(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleEditor, &airlineID)
	chapterID := uuid.New()
	svc := new(MockManualService)
	svc.On("CreateSection", mock.Anything, identity, chapterID, &services.CreateSectionRequest{Title: "Fuel"}).
		Return(&models.Section{ID: uuid.New(), ChapterID: chapterID, Title: "Fuel"}, nil)

	rec := serve(t, request{
		method: http.MethodPost, route: "/chapters/:chapter_id/sections", target: "/chapters/" + chapterID.String() + "/sections",
		body: jsonBody(`{"title":"Fuel"}`), identity: identity,
	}, NewManualHandlers(svc).CreateSection)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteContent_NotFound(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleEditor, &airlineID)
	id := uuid.New()
	svc := new(MockManualService)
	svc.On("DeleteContent", mock.Anything, identity, id).Return(common.NewNotFoundError("Content"))

	rec := serve(t, request{
		method: http.MethodDelete, route: "/contents/:content_id", target: "/contents/" + id.String(), identity: identity,
	}, NewManualHandlers(svc).DeleteContent)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Content not found", decodeError(t, rec).Error.Message)
}

func TestCreateContact_GroupFromPath(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleEditor, &airlineID)
	groupID := uuid.New()
	svc := new(MockContactService)
	svc.On("CreateContact", mock.Anything, identity, mock.MatchedBy(func(req *services.ContactRequest) bool {
		return req.GroupID == groupID && req.FirstName == "Ana"
	})).Return(&models.Contact{ID: uuid.New(), GroupID: groupID, AirlineID: airlineID, FirstName: "Ana"}, nil)

	rec := serve(t, request{
		method: http.MethodPost, route: "/contact-groups/:group_id/contacts", target: "/contact-groups/" + groupID.String() + "/contacts",
		body: jsonBody(`{"group_id":"` + uuid.NewString() + `","first_name":"Ana","last_name":"Silva"}`), identity: identity,
	}, NewContactHandlers(svc).CreateContact)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteGroup_WithContacts(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleEditor, &airlineID)
	groupID := uuid.New()
	svc := new(MockContactService)
	svc.On("DeleteGroup", mock.Anything, identity, groupID).Return(common.NewConflictError("Contact group still has contacts"))

	rec := serve(t, request{
		method: http.MethodDelete, route: "/contact-groups/:group_id", target: "/contact-groups/" + groupID.String(), identity: identity,
	}, NewContactHandlers(svc).DeleteGroup)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearch(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleViewer, &airlineID)
	svc := new(MockSearchService)
	svc.On("Search", mock.Anything, identity, "fuel", (*uuid.UUID)(nil)).
		Return([]*models.SearchResult{{Type: models.SearchChapter, ID: uuid.New(), Title: "Fuel Planning", AirlineID: airlineID}}, nil)

	rec := serve(t, request{method: http.MethodGet, route: "/search", target: "/search?q=fuel", identity: identity},
		NewSearchHandlers(svc).Search)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	svc.AssertExpectations(t)
}

func TestSearchInChapter_EmptyQuery(t *testing.T) {
	airlineID := uuid.New()
	identity := identityFor(models.RoleViewer, &airlineID)
	chapterID := uuid.New()
	svc := new(MockSearchService)
	svc.On("SearchInChapter", mock.Anything, identity, chapterID, "").Return(nil, common.NewValidationError("q", "search query is required"))

	rec := serve(t, request{
		method: http.MethodGet, route: "/search/chapters/:chapter_id", target: "/search/chapters/" + chapterID.String(), identity: identity,
	}, NewSearchHandlers(svc).SearchInChapter)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy without storage", func(t *testing.T) {
		h := NewHealthHandlers(fakePinger{}, nil, nil, "test")
		rec := serve(t, request{method: http.MethodGet, route: "/health", target: "/health"}, h.HealthCheck)

		assert.Equal(t, http.StatusOK, rec.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "disabled", status.Services["storage"])
		assert.Equal(t, "test", status.Version)
	})

	t.Run("degraded when database is down", func(t *testing.T) {
		h := NewHealthHandlers(fakePinger{err: errors.New("refused")}, nil, nil, "test")
		rec := serve(t, request{method: http.MethodGet, route: "/health", target: "/health"}, h.HealthCheck)

		assert.Equal(t, http.StatusPartialContent, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"unhealthy"`)
	})
}

func TestReadinessCheck(t *testing.T) {
	h := NewHealthHandlers(fakePinger{err: errors.New("refused")}, nil, nil, "test")
	rec := serve(t, request{method: http.MethodGet, route: "/health/ready", target: "/health/ready"}, h.ReadinessCheck)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewHealthHandlers(fakePinger{}, nil, nil, "test")
	rec = serve(t, request{method: http.MethodGet, route: "/health/ready", target: "/health/ready"}, h.ReadinessCheck)
	assert.Equal(t, http.StatusOK, rec.Code)
}
