//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tabgenius/tabgenius/cmd"
	"github.com/tabgenius/tabgenius/midi"
	"github.com/tabgenius/tabgenius/model"
	"github.com/tabgenius/tabgenius/tablature"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tabgenius-e2e")
	if err != nil {
		panic(err.Error())
	}
	os.Setenv("TABGENIUS_DB", filepath.Join(dir, "users.db"))
	cmd.LoadServeStore()

	exitVal := m.Run()

	os.RemoveAll(dir)
	os.Exit(exitVal)
}

func jsonBody(v any) io.Reader {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err.Error())
	}
	return bytes.NewReader(data)
}

func do(req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	cmd.NewRouter().ServeHTTP(w, req)
	return w.Result()
}

func signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/signup",
		jsonBody(model.SignupRequestBody{Email: email, Password: "hunter2"}))
	resp := do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup returned %v", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/login",
		jsonBody(model.LoginRequestBody{Email: email, Password: "hunter2"}))
	resp = do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %v", resp.StatusCode)
	}

	var login model.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatal(err)
	}
	return login.Token
}

func TestSignupConflict(t *testing.T) {
	signupAndLogin(t, "dup@example.com")

	req := httptest.NewRequest(http.MethodPost, "/signup",
		jsonBody(model.SignupRequestBody{Email: "dup@example.com", Password: "other"}))
	assert.Equal(t, http.StatusConflict, do(req).StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	signupAndLogin(t, "badpw@example.com")

	req := httptest.NewRequest(http.MethodPost, "/login",
		jsonBody(model.LoginRequestBody{Email: "badpw@example.com", Password: "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, do(req).StatusCode)
}

func TestGenerateRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/generate/text",
		jsonBody(model.GenerateTextRequestBody{Prompt: "slow blues"}))
	assert.Equal(t, http.StatusUnauthorized, do(req).StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/generate/text",
		jsonBody(model.GenerateTextRequestBody{Prompt: "slow blues"}))
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, do(req).StatusCode)
}

func TestTextGenerationFlow(t *testing.T) {
	token := signupAndLogin(t, "text@example.com")
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodPost, "/generate/text",
		jsonBody(model.GenerateTextRequestBody{Prompt: "slow dark blues", Measures: 2}))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(req)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var tabResp model.TabResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&tabResp))

	lines := strings.Split(tabResp.Tab, "\n")
	assert.Len(lines, 6)
	assert.True(strings.HasPrefix(lines[0], "E|"))
	assert.Equal("blues", tabResp.MusicInfo.Style)
	assert.Equal("A minor", tabResp.MusicInfo.Key)
	assert.Equal(60, tabResp.MusicInfo.Tempo)

	// usage was charged
	req = httptest.NewRequest(http.MethodGet, "/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = do(req)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var usage model.UsageResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&usage))
	assert.Equal(1, usage.Used)
	assert.Equal(100, usage.Limit)
}

func midiUploadRequest(t *testing.T, target string, notes []model.TimedNote) *http.Request {
	t.Helper()

	path := filepath.Join(t.TempDir(), "upload.mid")
	if err := midi.WriteMelody(path, 120, notes); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "upload.mid")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMidiGenerationFlow(t *testing.T) {
	token := signupAndLogin(t, "midi@example.com")
	assert := assert.New(t)

	req := midiUploadRequest(t, "/generate/midi", []model.TimedNote{
		{Key: 64, Beats: 1},
		{Key: 59, Beats: 1},
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(req)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var tabResp model.TabResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&tabResp))

	lines := strings.Split(tabResp.Tab, "\n")
	assert.Len(lines, 6)
	assert.Equal("E|-0----", lines[0])
	assert.Equal("B|----0-", lines[1])
	assert.Nil(tabResp.MusicInfo)
}

func TestMidiUploadWithNoNotes(t *testing.T) {
	token := signupAndLogin(t, "empty@example.com")

	req := midiUploadRequest(t, "/generate/midi", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(req)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var tabResp model.TabResponse
	assert.NoError(json.NewDecoder(resp.Body).Decode(&tabResp))
	assert.Equal(tablature.NoNotesSentinel, tabResp.Tab)
}

func TestGarbageMidiUploadRejected(t *testing.T) {
	token := signupAndLogin(t, "garbage@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "garbage.mid")
	part.Write([]byte("definitely not midi"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/generate/midi", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, do(req).StatusCode)
}

func TestPricing(t *testing.T) {
	resp := do(httptest.NewRequest(http.MethodGet, "/pricing", nil))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var tiers []model.PricingTier
	assert.NoError(json.NewDecoder(resp.Body).Decode(&tiers))
	assert.Len(tiers, 3)
	assert.Equal("free", tiers[0].Name)
	assert.Equal(-1, tiers[2].MonthlyLimit)
}

func TestExportFlow(t *testing.T) {
	token := signupAndLogin(t, "export@example.com")

	req := httptest.NewRequest(http.MethodPost, "/export", jsonBody(model.ExportRequestBody{
		Tab:       "E|-0-",
		MusicInfo: &model.MusicInfo{Style: "blues", Key: "A minor", Tempo: 80, Tuning: "standard"},
	}))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(req)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Contains(resp.Header.Get("Content-Disposition"), "guitar_tab.txt")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(string(body), "Style: blues")
	assert.Contains(string(body), "E|-0-")
	assert.Contains(string(body), "Generated by TabGenius")
}
