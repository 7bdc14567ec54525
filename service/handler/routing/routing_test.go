package routing

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/antinvestor/service-catalogue/service/business"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalogueService answers with canned results so the HTTP layer
// can be exercised without storage.
type stubCatalogueService struct {
	downloadResult *business.DownloadResult
	downloadErr    error

	getInfo *types.CatalogueInfo
	getErr  error

	trackResult *business.TrackBatchResult
	trackErr    error

	linksResult *business.ProductDownloadResult
	linksErr    error
}

func (s *stubCatalogueService) List(_ context.Context, _ *business.ListRequest) (*business.ListResult, error) {
	return &business.ListResult{Catalogues: []*types.CatalogueInfo{}, Limit: 20}, nil
}

func (s *stubCatalogueService) Get(_ context.Context, _ types.CatalogueID) (*types.CatalogueInfo, error) {
	return s.getInfo, s.getErr
}

func (s *stubCatalogueService) Upload(_ context.Context, _ *business.UploadRequest) (*types.CatalogueInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogueService) Update(_ context.Context, _ *business.UpdateRequest) (*types.CatalogueInfo, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogueService) Delete(_ context.Context, _ *business.DeleteRequest) error {
	return errors.New("not implemented")
}

func (s *stubCatalogueService) Download(_ context.Context, _ *business.DownloadRequest) (*business.DownloadResult, error) {
	return s.downloadResult, s.downloadErr
}

func (s *stubCatalogueService) ProductLinks(_ context.Context, _ *business.ProductDownloadRequest) (*business.ProductDownloadResult, error) {
	return s.linksResult, s.linksErr
}

func (s *stubCatalogueService) RequestEmail(_ context.Context, _ *business.EmailRequest) (*business.EmailResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogueService) TrackBatch(_ context.Context, _ *business.TrackBatchRequest) (*business.TrackBatchResult, error) {
	return s.trackResult, s.trackErr
}

func newTestServer(stub *stubCatalogueService) *CatalogueServer {
	return &CatalogueServer{catalogueService: stub}
}

// stubNewsletterService answers subscriber admin calls without storage.
type stubNewsletterService struct {
	statusSubscriber *models.NewsletterSubscriber
	statusErr        error
}

func (s *stubNewsletterService) Subscribe(_ context.Context, _ *business.SubscribeRequest) (*business.SubscribeResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubNewsletterService) Unsubscribe(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func (s *stubNewsletterService) SetSubscriberStatus(_ context.Context, _ string, active bool) (*models.NewsletterSubscriber, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	s.statusSubscriber.Active = active
	return s.statusSubscriber, nil
}

// fakeSubscriberRepo serves the admin listing and export endpoints.
type fakeSubscriberRepo struct {
	subscribers []*models.NewsletterSubscriber
}

func (f *fakeSubscriberRepo) GetByID(_ context.Context, _ string) (*models.NewsletterSubscriber, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSubscriberRepo) GetByEmail(_ context.Context, _ string) (*models.NewsletterSubscriber, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSubscriberRepo) GetByToken(_ context.Context, _ string) (*models.NewsletterSubscriber, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSubscriberRepo) Save(_ context.Context, _ *models.NewsletterSubscriber) error {
	return errors.New("not implemented")
}

func (f *fakeSubscriberRepo) List(_ context.Context, _ int, _ int) ([]*models.NewsletterSubscriber, int64, error) {
	return f.subscribers, int64(len(f.subscribers)), nil
}

func (f *fakeSubscriberRepo) ListAll(_ context.Context) ([]*models.NewsletterSubscriber, error) {
	return f.subscribers, nil
}

func (f *fakeSubscriberRepo) Count(_ context.Context, _ bool) (int64, error) {
	return int64(len(f.subscribers)), nil
}

// fakeActivityRepo serves the per-actor activity listing.
type fakeActivityRepo struct {
	activities []*models.Activity
}

func (f *fakeActivityRepo) GetByID(_ context.Context, _ string) (*models.Activity, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeActivityRepo) Save(_ context.Context, _ *models.Activity) error {
	return errors.New("not implemented")
}

func (f *fakeActivityRepo) List(_ context.Context, _ string, _ int, _ int) ([]*models.Activity, int64, error) {
	return f.activities, int64(len(f.activities)), nil
}

func (f *fakeActivityRepo) ListByActor(_ context.Context, actorID types.ActorID, _ int) ([]*models.Activity, error) {
	matched := make([]*models.Activity, 0)
	for _, activity := range f.activities {
		if activity.ActorID == string(actorID) {
			matched = append(matched, activity)
		}
	}
	return matched, nil
}

func (f *fakeActivityRepo) CountKindSince(_ context.Context, _ string, _ time.Time) (int64, error) {
	return int64(len(f.activities)), nil
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) apiResponse {
	t.Helper()

	var envelope apiResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestDownloadCatalogue_StreamsFile(t *testing.T) {
	content := "%PDF-1.4 catalogue bytes"
	stub := &stubCatalogueService{
		downloadResult: &business.DownloadResult{
			FileData:      io.NopCloser(strings.NewReader(content)),
			ContentType:   "application/pdf",
			ContentLength: types.FileSizeBytes(len(content)),
			Filename:      "Tape Extrusion Lines.pdf",
		},
	}
	server := newTestServer(stub)

	router := mux.NewRouter()
	router.HandleFunc("/api/catalogue/{catalogueId}/download", server.DownloadCatalogue)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue/cat-1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Tape Extrusion Lines.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "24", rec.Header().Get("Content-Length"))
	assert.Equal(t, content, rec.Body.String())
}

func TestDownloadCatalogue_ErrorTags(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedTag    string
	}{
		{
			name:           "unknown catalogue",
			err:            business.ErrCatalogueNotFound,
			expectedStatus: http.StatusNotFound,
			expectedTag:    "catalogue_not_found",
		},
		{
			name:           "registry row without file",
			err:            business.ErrFileNotFound,
			expectedStatus: http.StatusNotFound,
			expectedTag:    "file_not_found",
		},
		{
			name:           "storage blew up",
			err:            errors.New("bucket unreachable"),
			expectedStatus: http.StatusInternalServerError,
			expectedTag:    "internal_error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&stubCatalogueService{downloadErr: tc.err})

			router := mux.NewRouter()
			router.HandleFunc("/api/catalogue/{catalogueId}/download", server.DownloadCatalogue)

			req := httptest.NewRequest(http.MethodGet, "/api/catalogue/cat-1/download", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			envelope := decodeEnvelope(t, rec.Body)
			assert.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tc.expectedTag, *envelope.Error)
		})
	}
}

func TestGetCatalogue_Envelope(t *testing.T) {
	stub := &stubCatalogueService{
		getInfo: &types.CatalogueInfo{
			ID:           "cat-1",
			OriginalName: "Tape Extrusion Lines.pdf",
			Active:       true,
		},
	}
	server := newTestServer(stub)

	router := mux.NewRouter()
	router.HandleFunc("/api/catalogue/{catalogueId}", server.GetCatalogue)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue/cat-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
	assert.NotEmpty(t, envelope.Message)
}

func TestDownloadProduct_ReturnsLinks(t *testing.T) {
	stub := &stubCatalogueService{
		linksResult: &business.ProductDownloadResult{
			ProductID: "tape-extrusion-lines",
			Links: []types.DownloadLink{
				{CatalogueID: "cat-1", OriginalName: "Tape Extrusion Lines.pdf", URL: "/api/catalogue/cat-1/download"},
			},
		},
	}
	server := newTestServer(stub)

	router := mux.NewRouter()
	router.HandleFunc("/api/catalogue/product/{productId}/download", server.DownloadProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue/product/1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tape-extrusion-lines", data["productId"])
}

func TestTrackBatch_Validation(t *testing.T) {
	server := newTestServer(&stubCatalogueService{})

	testCases := []struct {
		name string
		body string
	}{
		{
			name: "malformed json",
			body: "{not json",
		},
		{
			name: "missing product id",
			body: `{"catalogueUrls":[{"url":"/x.pdf","title":"x.pdf","type":"pdf"}]}`,
		},
		{
			name: "empty item list",
			body: `{"productId":"tape-extrusion-lines","catalogueUrls":[]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/catalogue/download", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			server.TrackBatch(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			envelope := decodeEnvelope(t, rec.Body)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, "validation_failed", *envelope.Error)
		})
	}
}

func TestTrackBatch_ReportsRecordedCount(t *testing.T) {
	stub := &stubCatalogueService{
		trackResult: &business.TrackBatchResult{
			TrackedCatalogues: 2,
			ProductID:         "tape-extrusion-lines",
			ProductTitle:      "Tape Extrusion Lines",
		},
	}
	server := newTestServer(stub)

	body := `{"productId":"tape-extrusion-lines","productTitle":"Tape Extrusion Lines","catalogueUrls":[{"url":"/a.pdf","title":"a.pdf","type":"pdf"},{"url":"/b.pdf","title":"b.pdf","type":"pdf"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/catalogue/download", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.TrackBatch(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, data["trackedCatalogues"])
}

func TestListSubscribers_Envelope(t *testing.T) {
	server := &CatalogueServer{subscriberRepo: &fakeSubscriberRepo{
		subscribers: []*models.NewsletterSubscriber{
			{Email: "buyer@example.com", Active: true},
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/subscribers", nil)
	rec := httptest.NewRecorder()
	server.ListSubscribers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, data["total"])
}

func TestUpdateSubscriberStatus(t *testing.T) {
	subscriber := &models.NewsletterSubscriber{Email: "buyer@example.com", Active: false}
	subscriber.ID = "sub-1"

	t.Run("activates subscriber", func(t *testing.T) {
		server := &CatalogueServer{newsletterService: &stubNewsletterService{statusSubscriber: subscriber}}
		router := mux.NewRouter()
		router.HandleFunc("/api/admin/subscribers/{subscriberId}/status", server.UpdateSubscriberStatus)

		req := httptest.NewRequest(http.MethodPut, "/api/admin/subscribers/sub-1/status",
			strings.NewReader(`{"isActive":true}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec.Body)
		assert.True(t, envelope.Success)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, data["isActive"])
	})

	t.Run("unknown subscriber", func(t *testing.T) {
		server := &CatalogueServer{newsletterService: &stubNewsletterService{statusErr: business.ErrSubscriberNotFound}}
		router := mux.NewRouter()
		router.HandleFunc("/api/admin/subscribers/{subscriberId}/status", server.UpdateSubscriberStatus)

		req := httptest.NewRequest(http.MethodPut, "/api/admin/subscribers/missing/status",
			strings.NewReader(`{"isActive":false}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		envelope := decodeEnvelope(t, rec.Body)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "subscriber_not_found", *envelope.Error)
	})
}

func TestExportSubscribers_CSV(t *testing.T) {
	server := &CatalogueServer{subscriberRepo: &fakeSubscriberRepo{
		subscribers: []*models.NewsletterSubscriber{
			{Email: "buyer@example.com", Name: "Buyer", CompanyName: "Acme", City: "Nairobi", Source: "app", Active: true},
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/subscribers/export", nil)
	rec := httptest.NewRecorder()
	server.ExportSubscribers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "newsletter_subscribers.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "email", records[0][0])
	assert.Equal(t, "buyer@example.com", records[1][0])
	assert.Equal(t, "true", records[1][6])
}

func TestListActorActivities_FiltersByActor(t *testing.T) {
	server := &CatalogueServer{activityRepo: &fakeActivityRepo{
		activities: []*models.Activity{
			{Kind: models.ActivityCatalogueDownload, ActorID: "actor-1"},
			{Kind: models.ActivityNewsletterSubscribe, ActorID: "actor-2"},
		},
	}}

	router := mux.NewRouter()
	router.HandleFunc("/api/admin/actors/{actorId}/activities", server.ListActorActivities)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/actors/actor-1/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec.Body)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)

	activities, ok := data["activities"].([]any)
	require.True(t, ok)
	assert.Len(t, activities, 1)
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name      string
		remote    string
		forwarded string
		expected  string
	}{
		{
			name:     "direct connection",
			remote:   "192.0.2.7:51234",
			expected: "192.0.2.7",
		},
		{
			name:      "behind proxy takes first hop",
			remote:    "10.0.0.1:80",
			forwarded: "203.0.113.9, 10.0.0.1",
			expected:  "203.0.113.9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			assert.Equal(t, tc.expected, clientIP(req))
		})
	}
}
