package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/personalize"
	"agentConsole/internal/platform"
	"agentConsole/internal/preview"
)

type instantComposer struct{}

func (instantComposer) Compose(_ context.Context, _ personalize.BrandingInput, _ personalize.CustomizationProfile, docType personalize.DocumentType) (*personalize.ComposedDocument, error) {
	return &personalize.ComposedDocument{DocumentType: docType, Bytes: []byte("pdf")}, nil
}

type prefsPlatform struct {
	mu       sync.Mutex
	getBody  string
	requests []string
	server   *httptest.Server
}

func newPrefsPlatform(t *testing.T, getBody string) *prefsPlatform {
	t.Helper()
	p := &prefsPlatform{getBody: getBody}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests = append(p.requests, r.Method+" "+r.URL.Path)
		body := p.getBody
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/get/agentPreferences" {
			io.WriteString(w, body)
			return
		}
		io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *prefsPlatform) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

func newPersonalizationFixture(t *testing.T, getBody string) (*PersonalizationHandler, *prefsPlatform, *personalize.Controller) {
	t.Helper()
	p := newPrefsPlatform(t, getBody)
	client := platform.NewClient(p.server.URL, 2*time.Second, nil)
	controller := personalize.NewController(personalize.NewStore(), instantComposer{}, preview.NewRenderer(), nil, nil)
	t.Cleanup(controller.Close)
	return NewPersonalizationHandler(client, controller, nil), p, controller
}

func jsonContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("session", testAPISession(t))
	return c, w
}

func TestPersonalizationState_NoRecordFallsBackToDefaults(t *testing.T) {
	h, p, _ := newPersonalizationFixture(t, `{"success":false,"message":"no record"}`)

	c, w := jsonContext(t, http.MethodGet, "/v1/personalize", "")
	h.State(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		State          personalize.State `json:"state"`
		HasSavedRecord bool              `json:"hasSavedRecord"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.HasSavedRecord {
		t.Error("expected hasSavedRecord false")
	}
	if resp.State.Profile != personalize.DefaultProfile() {
		t.Errorf("expected default profile, got %+v", resp.State.Profile)
	}
	if resp.State.Branding.Name != "" {
		t.Errorf("expected empty branding, got %+v", resp.State.Branding)
	}

	reqs := p.recorded()
	if len(reqs) != 1 || reqs[0] != "POST /api/get/agentPreferences" {
		t.Fatalf("unexpected platform requests: %v", reqs)
	}

	// 第二次访问命中缓存，不再发起平台请求
	c, _ = jsonContext(t, http.MethodGet, "/v1/personalize", "")
	h.State(c)
	if reqs := p.recorded(); len(reqs) != 1 {
		t.Errorf("expected cached load, got requests %v", reqs)
	}
}

func TestPersonalizationState_AppliesSavedRecord(t *testing.T) {
	h, _, _ := newPersonalizationFixture(t, `{"success":true,"data":{
		"email":"agent@example.com",
		"pdf_preferences":{
			"name":"Jane Agent",
			"photoURL":"https://cdn.example.com/p.png",
			"content":"Call me",
			"customization":{
				"name":{"enabled":true,"xPos":60,"yPos":70,"fontSize":16},
				"photo":{"enabled":true,"xPos":50,"yPos":150,"width":120,"height":110},
				"content":{"enabled":false,"xPos":50,"yPos":250,"fontSize":12}
			}
		}
	}}`)

	c, w := jsonContext(t, http.MethodGet, "/v1/personalize", "")
	h.State(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		State          personalize.State `json:"state"`
		HasSavedRecord bool              `json:"hasSavedRecord"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.HasSavedRecord {
		t.Error("expected hasSavedRecord true")
	}
	if resp.State.Branding.Name != "Jane Agent" || resp.State.Branding.PhotoReference != "https://cdn.example.com/p.png" {
		t.Errorf("saved branding not applied: %+v", resp.State.Branding)
	}
	if resp.State.Profile.Name.FontSize != 16 || resp.State.Profile.Content.Enabled {
		t.Errorf("saved customization not applied: %+v", resp.State.Profile)
	}
}

func TestPersonalizationSave_CreateThenUpdate(t *testing.T) {
	h, p, controller := newPersonalizationFixture(t, `{"success":false}`)

	controller.SetBranding(personalize.BrandingUpdate{})

	c, w := jsonContext(t, http.MethodPost, "/v1/personalize/save", "")
	h.Save(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first save: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"created":true`) {
		t.Errorf("expected created=true, got %s", w.Body.String())
	}

	c, w = jsonContext(t, http.MethodPost, "/v1/personalize/save", "")
	h.Save(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second save: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"created":false`) {
		t.Errorf("expected created=false, got %s", w.Body.String())
	}

	reqs := p.recorded()
	var create, update int
	for _, r := range reqs {
		switch r {
		case "POST /api/create/agentPreferences":
			create++
		case "PUT /api/update/agentPreferences":
			update++
		}
	}
	if create != 1 || update != 1 {
		t.Errorf("expected exactly one create then one update, got %v", reqs)
	}
}

func TestPersonalizationUpdateField_ClampsAndReturnsPlacement(t *testing.T) {
	h, _, _ := newPersonalizationFixture(t, `{"success":false}`)

	c, w := jsonContext(t, http.MethodPut, "/v1/personalize/fields/name", `{"xPos":9999,"fontSize":5}`)
	c.Params = gin.Params{{Key: "field", Value: "name"}}
	h.UpdateField(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Placement personalize.FieldPlacement `json:"placement"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Placement.XPos != personalize.MaxXPos {
		t.Errorf("expected clamped xPos, got %v", resp.Placement.XPos)
	}
	if resp.Placement.FontSize != personalize.MinFontSize {
		t.Errorf("expected clamped fontSize, got %v", resp.Placement.FontSize)
	}
}

func TestPersonalizationUpdateField_UnknownField(t *testing.T) {
	h, _, _ := newPersonalizationFixture(t, `{"success":false}`)

	c, w := jsonContext(t, http.MethodPut, "/v1/personalize/fields/banner", `{"xPos":10}`)
	c.Params = gin.Params{{Key: "field", Value: "banner"}}
	h.UpdateField(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestPersonalizationSetDocumentType_SwitchesAndApplies(t *testing.T) {
	h, _, controller := newPersonalizationFixture(t, `{"success":false}`)

	c, w := jsonContext(t, http.MethodPut, "/v1/personalize/type", `{"type":"image"}`)
	h.SetDocumentType(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := controller.State().DocumentType; got != personalize.DocumentImage {
		t.Errorf("document type not switched: %q", got)
	}

	c, w = jsonContext(t, http.MethodPut, "/v1/personalize/type", `{"type":"poster"}`)
	h.SetDocumentType(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", w.Code)
	}
}
