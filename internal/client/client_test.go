package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidctl/internal/apierr"
	"vidctl/internal/client"
	"vidctl/internal/ident"
	"vidctl/internal/logging"
	"vidctl/internal/model"
	"vidctl/internal/testsupport"
)

var appID = testsupport.ApplicationID

func newClient(t *testing.T, handler http.HandlerFunc, edit func(*client.Options)) (*client.Client, *[]error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var seen []error
	opts := client.Options{
		BaseURL:       server.URL + "/",
		Token:         "token-123",
		ApplicationID: appID,
		UserAgent:     "vidctl-test",
		OnError:       func(err error) { seen = append(seen, err) },
	}
	if edit != nil {
		edit(&opts)
	}
	c, err := client.New(opts)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return c, &seen
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestListDeploymentsSendsQueryAndHeaders(t *testing.T) {
	fixture := testsupport.NewDeployed(t).Deployment
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/apps/"+appID.String()+"/deployments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.RawQuery; got != "limit=5&states=running&with_configuration=false&with_definition=false" {
			t.Errorf("unexpected query %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("unexpected authorization %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "vidctl-test" {
			t.Errorf("unexpected user agent %q", got)
		}
		writeJSON(t, w, http.StatusOK, []model.Deployment{fixture})
	}, nil)

	state := model.DeploymentRunning
	list, err := c.ListDeployments(context.Background(), model.DeploymentListParams{Limit: 5, State: &state})
	if err != nil {
		t.Fatalf("ListDeployments: %v", err)
	}
	if len(list) != 1 || list[0].ID() != fixture.ID() {
		t.Fatalf("unexpected deployments %+v", list)
	}
}

func TestCreateDeploymentBody(t *testing.T) {
	d := testsupport.NewDeployed(t)
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["device_id"] != d.Gateway.ID().String() || body["pipeline_id"] != d.Pipeline.ID().String() {
			t.Errorf("unexpected ids in body %v", body)
		}
		if _, ok := body["definition"].(string); !ok {
			t.Errorf("definition must travel as a JSON string, got %T", body["definition"])
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		writeJSON(t, w, http.StatusCreated, d.Deployment)
	}, nil)

	name := "Lobby deployment"
	def := d.Pipeline.Definition()
	req, err := model.NewDeploymentRequest(model.DeploymentRequestSpec{
		PipelineID: d.Pipeline.ID(),
		GatewayID:  d.Gateway.ID(),
		Data:       model.DeploymentData{Name: &name, Definition: &def},
	})
	if err != nil {
		t.Fatalf("NewDeploymentRequest: %v", err)
	}
	got, err := c.CreateDeployment(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateDeployment: %v", err)
	}
	if got.ID() != d.Deployment.ID() {
		t.Fatalf("unexpected deployment id %s", got.ID())
	}
}

func TestAPIErrorsAreDecoded(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"not found", http.StatusNotFound, `{"code":"resource-not-found","message":"nope","context":{"resource":"deployment"}}`, client.ErrResourceNotFound},
		{"credentials", http.StatusUnauthorized, `{"code":"invalid-credentials","message":"bad"}`, client.ErrInvalidCredentials},
		{"gateway deleted", http.StatusForbidden, `{"code":"gateway-deleted","message":"gone"}`, client.ErrGatewayDeleted},
		{"empty", http.StatusInternalServerError, ``, client.ErrEmptyResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, seen := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, nil)

			id := ident.New()
			_, err := c.GetDeployment(context.Background(), id)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			var reqErr *client.RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %T", err)
			}
			wantPath := "/v1/apps/" + appID.String() + "/deployments/" + id.String()
			if reqErr.Details != (client.Details{Method: http.MethodGet, Path: wantPath, Status: tc.status}) {
				t.Fatalf("unexpected details %+v", reqErr.Details)
			}
			if len(*seen) != 1 || (*seen)[0] != err {
				t.Fatalf("expected error callback to see the returned error, got %v", *seen)
			}
		})
	}
}

func TestIsNotFoundMatchesResource(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"resource-not-found","message":"nope","context":{"resource":"deployment"}}`)
	}, nil)
	_, err := c.GetDeployment(context.Background(), ident.New())
	if !client.IsNotFound(err, client.ResourceDeployment) || !client.IsNotFound(err, "") {
		t.Fatalf("expected deployment not found, got %v", err)
	}
	if client.IsNotFound(err, "stream") {
		t.Fatal("must not match another resource")
	}
	if apierr.KindOf(err) != apierr.KindAPI {
		t.Fatalf("unexpected kind %q", apierr.KindOf(err))
	}
	if !strings.Contains(err.Error(), "failed with status code 404") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestMissingScopeIDs(t *testing.T) {
	c, seen := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	}, func(o *client.Options) { o.ApplicationID = ident.ID{} })

	if _, err := c.GetStream(context.Background(), ident.New()); !errors.Is(err, client.ErrApplicationIDMissing) {
		t.Fatalf("expected ErrApplicationIDMissing, got %v", err)
	}
	if _, err := c.GetGateway(context.Background()); !errors.Is(err, client.ErrGatewayIDMissing) {
		t.Fatalf("expected ErrGatewayIDMissing, got %v", err)
	}
	if len(*seen) != 2 {
		t.Fatalf("expected both errors to reach the callback, got %d", len(*seen))
	}
}

func TestCreateGatewayUsesItsApplication(t *testing.T) {
	owner := ident.MustParse("9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
	gateway, err := model.NewGateway(model.GatewaySpec{ApplicationID: owner, Name: "edge", Status: "online"})
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/apps/"+owner.String()+"/gateways" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := body["access_token"]; ok {
			t.Errorf("access_token must not be sent: %v", body)
		}
		body["id"] = "0f0e0d0c-0b0a-4908-8706-050403020100"
		body["access_token"] = "gw-secret"
		writeJSON(t, w, http.StatusCreated, body)
	}, func(o *client.Options) { o.ApplicationID = ident.ID{} })

	got, err := c.CreateGateway(context.Background(), gateway)
	if err != nil {
		t.Fatalf("CreateGateway: %v", err)
	}
	if got.ApplicationID() != owner || got.ID().String() != "0f0e0d0c-0b0a-4908-8706-050403020100" {
		t.Fatalf("unexpected gateway %+v", got.Spec())
	}
}

func TestTextBodiesAndActions(t *testing.T) {
	fileID := ident.New()
	deploymentID := ident.New()
	var calls []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/v1/apps/"+appID.String())+" "+string(body))
		if r.Method == http.MethodPut && !strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	ctx := context.Background()
	if err := c.SetFileCloudStatus(ctx, fileID, model.CloudUploaded); err != nil {
		t.Fatalf("SetFileCloudStatus: %v", err)
	}
	if err := c.StartDeployment(ctx, deploymentID); err != nil {
		t.Fatalf("StartDeployment: %v", err)
	}
	if err := c.StopDeployment(ctx, deploymentID); err != nil {
		t.Fatalf("StopDeployment: %v", err)
	}
	if err := c.DeleteDeployment(ctx, deploymentID); err != nil {
		t.Fatalf("DeleteDeployment: %v", err)
	}
	want := []string{
		"PUT /files/" + fileID.String() + "/cloud_status uploaded",
		"POST /deployments/" + deploymentID.String() + "/start ",
		"POST /deployments/" + deploymentID.String() + "/stop ",
		"DELETE /deployments/" + deploymentID.String() + " ",
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected calls:\n%s", strings.Join(calls, "\n"))
	}

	if err := c.SetFileCloudStatus(ctx, fileID, 0); !errors.Is(err, apierr.ErrUnknownVariant) {
		t.Fatalf("expected undeclared status to fail before sending, got %v", err)
	}
}

func TestDeleteFilesUsesFilterQuery(t *testing.T) {
	deploymentID := ident.New()
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.RawQuery != "limit=0&deployment_ids="+deploymentID.String() {
			t.Errorf("unexpected request %s ?%s", r.Method, r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusOK)
	}, nil)
	if err := c.DeleteFiles(context.Background(), model.FileListParams{DeploymentID: &deploymentID}); err != nil {
		t.Fatalf("DeleteFiles: %v", err)
	}
}

func TestInvalidResponseIsValidationFailure(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"`+ident.New().String()+`","name":"","source":"uri_stream","stream_type":"rtsp","uri":"rtsp://h/x"}`)
	}, nil)
	_, err := c.GetStream(context.Background(), ident.New())
	if err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if kind := apierr.KindOf(err); kind != apierr.KindValidation {
		t.Fatalf("expected validation kind, got %q (%v)", kind, err)
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := client.New(client.Options{BaseURL: base, Token: "t", ApplicationID: appID, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	_, err = c.GetFile(context.Background(), ident.New())
	if apierr.KindOf(err) != apierr.KindTransport {
		t.Fatalf("expected transport kind, got %q (%v)", apierr.KindOf(err), err)
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	if _, err := client.New(client.Options{BaseURL: "/v1"}); err == nil {
		t.Fatal("expected relative base url to be rejected")
	}
}

func TestNewFromConfigRequiresToken(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithToken(""))
	if _, err := client.NewFromConfig(cfg, nil); err == nil {
		t.Fatal("expected missing token error")
	}
	cfg = testsupport.NewConfig(t, testsupport.WithApplication(appID))
	c, err := client.NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if c.ApplicationID() != appID {
		t.Fatalf("unexpected application %s", c.ApplicationID())
	}
}

func TestCameraEndpoints(t *testing.T) {
	gatewayID := ident.MustParse("7d9e1f20-3a4b-4c5d-8e6f-708192a3b4c5")
	cameraID := ident.MustParse("0f0e0d0c-0b0a-4908-8706-050403020100")
	camera := map[string]any{
		"id":             cameraID.String(),
		"application_id": appID.String(),
		"name":           "Lobby cam",
		"status":         "online",
		"device_id":      gatewayID.String(),
	}
	var calls []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		path := strings.TrimPrefix(r.URL.Path, "/v1/apps/"+appID.String())
		calls = append(calls, r.Method+" "+path+" "+strings.TrimSpace(string(body)))
		switch {
		case r.Method == http.MethodPut && strings.HasSuffix(path, "/status"):
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(path, "/cameras_statuses"):
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && (path == "/cameras" || strings.HasSuffix(path, "/linked_cameras")):
			writeJSON(t, w, http.StatusOK, []any{camera})
		default:
			writeJSON(t, w, http.StatusOK, camera)
		}
	}, func(o *client.Options) { o.GatewayID = gatewayID })

	ctx := context.Background()
	name := "Lobby cam"
	req, err := model.NewCameraRequest(appID, model.CameraData{Name: &name})
	if err != nil {
		t.Fatalf("NewCameraRequest: %v", err)
	}
	created, err := c.CreateCamera(ctx, req)
	if err != nil {
		t.Fatalf("CreateCamera: %v", err)
	}
	if gw, ok := created.GatewayID(); !ok || gw != gatewayID {
		t.Fatalf("unexpected camera %+v", created.Spec())
	}
	if _, err := c.GetCamera(ctx, cameraID); err != nil {
		t.Fatalf("GetCamera: %v", err)
	}
	if list, err := c.ListCameras(ctx); err != nil || len(list) != 1 {
		t.Fatalf("ListCameras: %v %d", err, len(list))
	}
	if list, err := c.ListLinkedCameras(ctx); err != nil || len(list) != 1 {
		t.Fatalf("ListLinkedCameras: %v %d", err, len(list))
	}
	offline := "offline"
	upd, err := model.NewCameraUpdate(model.CameraData{Status: &offline})
	if err != nil {
		t.Fatalf("NewCameraUpdate: %v", err)
	}
	if _, err := c.UpdateCamera(ctx, cameraID, upd); err != nil {
		t.Fatalf("UpdateCamera: %v", err)
	}
	if err := c.SetCameraStatuses(ctx, []model.CameraUpdate{upd}); err != nil {
		t.Fatalf("SetCameraStatuses: %v", err)
	}
	if err := c.SetCameraStatus(ctx, cameraID, " online "); err != nil {
		t.Fatalf("SetCameraStatus: %v", err)
	}

	id := cameraID.String()
	want := []string{
		`POST /cameras {"application_id":"` + appID.String() + `","data":{"name":"Lobby cam"}}`,
		"GET /cameras/" + id + " ",
		"GET /cameras ",
		"GET /gateways/" + gatewayID.String() + "/linked_cameras ",
		"PUT /cameras/" + id + ` {"status":"offline"}`,
		"PUT /gateways/" + gatewayID.String() + `/cameras_statuses [{"status":"offline"}]`,
		"PUT /cameras/" + id + "/status online",
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected calls:\n%s", strings.Join(calls, "\n"))
	}

	if err := c.SetCameraStatus(ctx, cameraID, " "); apierr.KindOf(err) != apierr.KindValidation {
		t.Fatalf("expected blank status to fail before sending, got %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	cameraID, streamID, fileID := ident.New(), ident.New(), ident.New()
	var calls []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/v1/apps/"+appID.String())+" "+string(body))
		if r.Method == http.MethodPost {
			writeJSON(t, w, http.StatusOK, map[string]string{"file_id": fileID.String()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	ctx := context.Background()
	got, err := c.TakeCameraSnapshot(ctx, cameraID)
	if err != nil || got != fileID {
		t.Fatalf("TakeCameraSnapshot: %v %s", err, got)
	}
	if got, err = c.TakeStreamSnapshot(ctx, streamID); err != nil || got != fileID {
		t.Fatalf("TakeStreamSnapshot: %v %s", err, got)
	}
	if err := c.SetCameraSnapshotFileID(ctx, cameraID, fileID); err != nil {
		t.Fatalf("SetCameraSnapshotFileID: %v", err)
	}
	if err := c.SetStreamSnapshotFileID(ctx, streamID, fileID); err != nil {
		t.Fatalf("SetStreamSnapshotFileID: %v", err)
	}
	want := []string{
		"POST /cameras/" + cameraID.String() + `/snapshot {"gateway_id":null}`,
		"POST /streams/" + streamID.String() + `/snapshot {"gateway_id":null}`,
		"PUT /cameras/" + cameraID.String() + "/snapshot_file_id " + fileID.String(),
		"PUT /streams/" + streamID.String() + "/snapshot_file_id " + fileID.String(),
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected calls:\n%s", strings.Join(calls, "\n"))
	}
}

func TestCreateAndUpdateFile(t *testing.T) {
	fileID := ident.MustParse("0f0e0d0c-0b0a-4908-8706-050403020100")
	var methods []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/v1/apps/"+appID.String()))
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := body["stream_id"]; !ok {
			t.Errorf("unset ids must still be sent: %v", body)
		}
		body["id"] = fileID.String()
		body["application_id"] = appID.String()
		writeJSON(t, w, http.StatusOK, body)
	}, nil)

	req, err := model.NewFileRequest(model.FileData{Name: "clip.mp4", Size: 10, CloudStatus: model.CloudDisabled})
	if err != nil {
		t.Fatalf("NewFileRequest: %v", err)
	}
	ctx := context.Background()
	created, err := c.CreateFile(ctx, req)
	if err != nil || created.ID() != fileID {
		t.Fatalf("CreateFile: %v %s", err, created.ID())
	}
	data := created.ToData()
	data.CloudStatus = model.CloudUploaded
	if req, err = model.NewFileRequest(data); err != nil {
		t.Fatalf("NewFileRequest: %v", err)
	}
	updated, err := c.UpdateFile(ctx, fileID, req)
	if err != nil || updated.CloudStatus() != model.CloudUploaded {
		t.Fatalf("UpdateFile: %v %v", err, updated.CloudStatus())
	}
	if strings.Join(methods, ",") != "POST /files,PUT /files/"+fileID.String() {
		t.Fatalf("unexpected calls %v", methods)
	}
}
