package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafactory/ideas/internal/events"
)

// fakeAPI serves the endpoints the command tests exercise and records what
// the CLI sent.
type fakeAPI struct {
	mu        sync.Mutex
	submitted []map[string]any
	reviews   []map[string]any
	uploads   []string
	// auth holds the Authorization header last seen per "METHOD path".
	auth map[string]string
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.auth == nil {
		f.auth = map[string]string{}
	}
	f.auth[r.Method+" "+r.URL.Path] = r.Header.Get("Authorization")
}

func (f *fakeAPI) authFor(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[key]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/ideas":
		_ = enc.Encode([]map[string]any{
			{"id": 1, "title": "Home Tiffin Service", "category": "Food & Beverage", "investmentNeeded": 50000, "difficultyLevel": "Easy"},
			{"id": 2, "title": "Drone Crop Survey", "category": "Agriculture", "investmentNeeded": 2500000, "difficultyLevel": "Hard"},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/ideas":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.submitted = append(f.submitted, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = enc.Encode(map[string]any{"id": 7, "title": body["title"]})
	case r.Method == http.MethodGet && r.URL.Path == "/api/ideas/7":
		_ = enc.Encode(map[string]any{"id": 7, "title": "Solar Dryers", "category": "Agriculture", "investmentNeeded": 150000, "difficultyLevel": "Medium"})

	case r.Method == http.MethodGet && r.URL.Path == "/api/idea-details/7/complete":
		_ = enc.Encode(map[string]any{
			"internalFactors": []map[string]any{
				{"factorType": "STRENGTHS", "factors": []string{"Low startup cost"}},
			},
			"investments": map[string]any{
				"investments":     []map[string]any{{"investmentCategory": "Equipment", "amount": 120000, "priorityLevel": "HIGH"}},
				"totalInvestment": 120000,
				"investmentCount": 1,
			},
			"schemes":   []map[string]any{{"schemeName": "PM MUDRA Yojana", "schemeType": "GOVERNMENT", "maximumAmount": 1000000}},
			"bankLoans": []map[string]any{{"bankName": "SBI", "loanType": "MSME LOAN", "interestRateMin": 8.5, "interestRateMax": 11}},
			"ratingSummary": map[string]any{
				"averageRating":      4.5,
				"totalReviews":       2,
				"ratingDistribution": map[string]int{"5": 1, "4": 1},
			},
			"reviews": []map[string]any{
				{"id": 30, "ideaId": 7, "reviewerName": "Ravi", "comment": "Worked for our village", "rating": 5, "helpfulVotes": 3},
			},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/idea-details/7/reviews":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.reviews = append(f.reviews, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = enc.Encode(map[string]any{"id": 31, "ideaId": 7, "reviewerName": body["reviewerName"], "rating": body["rating"]})
	case r.Method == http.MethodPost && r.URL.Path == "/api/idea-details/reviews/31/vote":
		helpful := 0
		if r.URL.Query().Get("isHelpful") == "true" {
			helpful = 1
		}
		_ = enc.Encode(map[string]any{"id": 31, "ideaId": 7, "helpfulVotes": helpful, "unhelpfulVotes": 1 - helpful})
	case r.Method == http.MethodGet && r.URL.Path == "/api/idea-details/admin/reviews/pending":
		_ = enc.Encode([]map[string]any{
			{"id": 31, "ideaId": 7, "reviewerName": "Asha Rao", "comment": "Clear cost breakdown", "rating": 4},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/idea-details/admin/reviews/31/approve":
		_ = enc.Encode(map[string]any{"id": 31, "ideaId": 7, "isApproved": true})
	case r.Method == http.MethodDelete && r.URL.Path == "/api/idea-details/admin/reviews/31":
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && r.URL.Path == "/api/users/login":
		_ = enc.Encode(map[string]any{
			"token": "jwt-asha", "userId": 3, "fullName": "Asha Rao",
			"email": "asha@example.com", "emailVerified": true,
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/dashboard/profile":
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = enc.Encode(map[string]any{"error": "missing token"})
			return
		}
		_ = enc.Encode(map[string]any{"user": map[string]any{"fullName": "Asha Rao", "email": "asha@example.com", "location": "Pune"}})
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
		_ = enc.Encode(map[string]any{"token": "jwt-admin", "username": "root", "role": "SUPER_ADMIN"})
	case r.Method == http.MethodPost && r.URL.Path == "/api/admin/upload-ideas":
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = io.Copy(io.Discard, file)
		f.mu.Lock()
		f.uploads = append(f.uploads, hdr.Filename)
		f.mu.Unlock()
		_ = enc.Encode(map[string]any{"success": true, "message": "Uploaded 2 ideas", "batchId": "b-9", "ideasCount": 2})
	default:
		http.NotFound(w, r)
	}
}

// isolateCLI points configuration and state at a fresh home directory and
// returns it. Commands run after it share that state.
func isolateCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("IDEAS_STATE_DIR", filepath.Join(home, "state"))
	t.Setenv("IDEAS_NATS_URL", "")
	t.Setenv("IDEAS_S3_BUCKET", "")
	t.Setenv("IDEAS_CACHE_TTL", "0s")
	t.Setenv("IDEAS_PLACEHOLDER_SCORES", "false")
	t.Setenv("IDEAS_LOG_LEVEL", "error")
	return home
}

// execCLI executes the root command in the current environment.
func execCLI(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--api-url", apiURL, "--no-color"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// runCLI executes the root command against an isolated home and state dir.
func runCLI(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	isolateCLI(t)
	return execCLI(t, apiURL, args...)
}

func startTestNATS(t *testing.T) string {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(srv.Shutdown)
	require.True(t, srv.ReadyForConnections(5*time.Second), "embedded NATS not ready")
	return srv.ClientURL()
}

// fakeBucket records PUT requests made against a path-style S3 endpoint.
type fakeBucket struct {
	mu   sync.Mutex
	puts map[string][]byte
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.puts[r.URL.Path] = body
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func newFakeBucket(t *testing.T) (*fakeBucket, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	f := &fakeBucket{puts: map[string][]byte{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func TestListCommand(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := runCLI(t, srv.URL+"/api", "list", "tiffin")
	require.NoError(t, err)
	assert.Contains(t, out, "Home Tiffin Service")
	assert.NotContains(t, out, "Drone Crop Survey")
	assert.Contains(t, out, "1 ideas (2 total)")
}

// The --set map flag merges across parses of the shared root command, so
// this runs before the complete submission.
func TestSubmitCommandRejectsIncompleteForm(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, err := runCLI(t, srv.URL+"/api", "submit", "--no-input", "--set", "title=Only a title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
	assert.Empty(t, api.submitted)
}

func TestSubmitCommandNoInput(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := runCLI(t, srv.URL+"/api", "submit", "--no-input",
		"--set", "title=Solar dryers",
		"--set", "category=agriculture",
		"--set", "description=Dries crops with sunlight",
		"--set", "name=A. Rao",
		"--set", "contactEmail=a@example.com",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "idea submitted (id 7)")

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.submitted, 1)
	got := api.submitted[0]
	assert.Equal(t, "Solar dryers", got["title"])
	assert.Equal(t, "a@example.com", got["contactEmail"])
	assert.True(t, strings.TrimSpace(got["clientRef"].(string)) != "", "clientRef should be set")
}

func TestLoginSendsTokenOnLaterCommands(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	isolateCLI(t)

	_, err := execCLI(t, srv.URL+"/api", "account")
	require.Error(t, err, "account needs a signed-in user")

	out, err := execCLI(t, srv.URL+"/api", "login", "--email", "asha@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as Asha Rao <asha@example.com>")

	out, err = execCLI(t, srv.URL+"/api", "account")
	require.NoError(t, err)
	assert.Contains(t, out, "location: Pune")
	assert.Equal(t, "Bearer jwt-asha", api.authFor("GET /api/dashboard/profile"))
}

func TestShowCommandWithDetails(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, err := runCLI(t, srv.URL+"/api", "show", "7", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "Solar Dryers")
	assert.Contains(t, out, "- Low startup cost")
	assert.Contains(t, out, "Equipment")
	assert.Contains(t, out, "PM MUDRA Yojana (government)")
	assert.Contains(t, out, "SBI MSME LOAN, 8.50%-11.00%")
	assert.Contains(t, out, "4.5/5 from 2 reviews")
	assert.Contains(t, out, "Worked for our village")
}

func TestReviewCommands(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	isolateCLI(t)

	_, err := execCLI(t, srv.URL+"/api", "login", "--email", "asha@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, err := execCLI(t, srv.URL+"/api", "review", "add", "7",
		"--rating", "4", "--comment", "Clear cost breakdown", "--recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "review 31 submitted")

	api.mu.Lock()
	require.Len(t, api.reviews, 1)
	got := api.reviews[0]
	api.mu.Unlock()
	assert.Equal(t, "Asha Rao", got["reviewerName"], "name defaults to the signed-in user")
	assert.Equal(t, "asha@example.com", got["reviewerEmail"])
	assert.EqualValues(t, 4, got["rating"])
	assert.Equal(t, true, got["isRecommended"])

	out, err = execCLI(t, srv.URL+"/api", "review", "vote", "31", "--unhelpful")
	require.NoError(t, err)
	assert.Contains(t, out, "review 31: 0 helpful, 1 unhelpful")

	_, err = execCLI(t, srv.URL+"/api", "review", "vote", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid review id "abc"`)
}

func TestReviewAddRejectsOutOfRangeRating(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, err := runCLI(t, srv.URL+"/api", "review", "add", "7",
		"--name", "Ravi", "--comment", "Too many stars", "--rating", "6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.reviews, "invalid reviews are not sent")
}

func TestAdminReviewModeration(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	isolateCLI(t)

	_, err := execCLI(t, srv.URL+"/api", "admin", "reviews", "pending")
	require.ErrorIs(t, err, errAdminSignIn)

	out, err := execCLI(t, srv.URL+"/api", "admin", "login", "--user", "root", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as administrator root (SUPER_ADMIN)")

	out, err = execCLI(t, srv.URL+"/api", "admin", "reviews", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Clear cost breakdown")
	assert.Equal(t, "Bearer jwt-admin", api.authFor("GET /api/idea-details/admin/reviews/pending"))

	out, err = execCLI(t, srv.URL+"/api", "admin", "reviews", "approve", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "review 31 approved")

	out, err = execCLI(t, srv.URL+"/api", "admin", "reviews", "delete", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "review 31 deleted")
	assert.Equal(t, "Bearer jwt-admin", api.authFor("DELETE /api/idea-details/admin/reviews/31"))
}

func TestAdminUploadArchivesAndPublishes(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	home := isolateCLI(t)

	bucket, endpoint := newFakeBucket(t)
	t.Setenv("IDEAS_S3_BUCKET", "catalog")
	t.Setenv("IDEAS_S3_ENDPOINT", endpoint)

	natsURL := startTestNATS(t)
	t.Setenv("IDEAS_NATS_URL", natsURL)
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()
	sub, err := nc.SubscribeSync(events.TopicUploadCompleted)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	_, err = execCLI(t, srv.URL+"/api", "admin", "login", "--user", "root", "--password", "pw")
	require.NoError(t, err)

	file := filepath.Join(home, "ideas.csv")
	require.NoError(t, os.WriteFile(file, []byte("title,category\nSolar Dryers,Agriculture\n"), 0o600))

	out, err := execCLI(t, srv.URL+"/api", "admin", "upload", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded 2 ideas")
	assert.Contains(t, out, "archived: s3://catalog/ideas/uploads/b-9/ideas.csv")

	api.mu.Lock()
	assert.Equal(t, []string{"ideas.csv"}, api.uploads)
	api.mu.Unlock()
	assert.Equal(t, "Bearer jwt-admin", api.authFor("POST /api/admin/upload-ideas"))

	bucket.mu.Lock()
	archived, ok := bucket.puts["/catalog/ideas/uploads/b-9/ideas.csv"]
	bucket.mu.Unlock()
	require.True(t, ok, "upload file archived to the bucket")
	assert.Contains(t, string(archived), "Solar Dryers")

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	var ev events.UploadCompleted
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, events.UploadCompleted{
		BatchID:     "b-9",
		Filename:    "ideas.csv",
		IdeasCount:  2,
		ArchivedKey: "ideas/uploads/b-9/ideas.csv",
	}, ev)
}
