package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

type stubCampaignStore struct {
	mu         sync.Mutex
	exists     map[string]bool
	entries    map[string][]domain.DonorEntry
	failAppend bool
}

func (c *stubCampaignStore) Create(ctx context.Context, campaign *domain.Campaign) error { return nil }
func (c *stubCampaignStore) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return nil, pgx.ErrNoRows
}
func (c *stubCampaignStore) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	return nil, nil
}
func (c *stubCampaignStore) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Campaign, error) {
	return nil, nil
}
func (c *stubCampaignStore) SetPaused(ctx context.Context, id string, paused bool) error { return nil }

func (c *stubCampaignStore) AppendDonator(ctx context.Context, campaignID string, entry domain.DonorEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAppend {
		return errors.New("store unavailable")
	}
	if !c.exists[campaignID] {
		return pgx.ErrNoRows
	}
	c.entries[campaignID] = append(c.entries[campaignID], entry)
	return nil
}

type stubDonationStore struct {
	mu   sync.Mutex
	byID map[string]domain.Donation
}

func (d *stubDonationStore) Create(ctx context.Context, donation *domain.Donation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	donation.CreatedAt = time.Now()
	d.byID[donation.ID] = *donation
	return nil
}

func (d *stubDonationStore) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	donation, ok := d.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &donation, nil
}

func (d *stubDonationStore) ListByDonor(ctx context.Context, email string, limit, offset int) ([]domain.Donation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []domain.Donation
	for _, donation := range d.byID {
		if donation.DonorEmail == email {
			out = append(out, donation)
		}
	}
	return out, nil
}

func (d *stubDonationStore) ListUnreconciled(ctx context.Context, limit int) ([]domain.Donation, error) {
	return nil, nil
}

func newDonationsApp(campaigns *stubCampaignStore, donations *stubDonationStore) (*fiber.App, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	gate := auth.NewTokenMiddleware(tm)

	donationService := service.NewDonationService(service.DonationDependencies{
		DonationRepo: donations,
		CampaignRepo: campaigns,
	})
	handler := NewDonationsHandler(donationService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			body := fiber.Map{"code": de.Code}
			if len(de.Details) > 0 {
				body["details"] = de.Details
			}
			return c.Status(de.HTTPStatus).JSON(body)
		},
	})
	app.Post("/api/donations", gate.Handle, handler.Record)
	app.Get("/api/donations/mine", gate.Handle, handler.ListMine)
	return app, tm
}

func donationRequest(t *testing.T, tm *auth.TokenManager, body string) *http.Request {
	t.Helper()
	token, _, err := tm.GenerateToken("a@x.com", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRecordDonation_Success(t *testing.T) {
	campaigns := &stubCampaignStore{exists: map[string]bool{"c1": true}, entries: make(map[string][]domain.DonorEntry)}
	donations := &stubDonationStore{byID: make(map[string]domain.Donation)}
	app, tm := newDonationsApp(campaigns, donations)

	resp, err := app.Test(donationRequest(t, tm, `{"campaign_id":"c1","amount":2500}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Data struct {
			DonationID       string `json:"donation_id"`
			DonationInserted bool   `json:"donation_inserted"`
			CampaignUpdated  bool   `json:"campaign_updated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Data.DonationInserted)
	assert.True(t, out.Data.CampaignUpdated)

	// Donor identity comes from the verified token, not the payload.
	stored := donations.byID[out.Data.DonationID]
	assert.Equal(t, "a@x.com", stored.DonorEmail)
	assert.Equal(t, "Alice", stored.DonorName)
	require.Len(t, campaigns.entries["c1"], 1)
	assert.Equal(t, out.Data.DonationID, campaigns.entries["c1"][0].DonationID)
}

func TestRecordDonation_WithoutToken(t *testing.T) {
	campaigns := &stubCampaignStore{exists: map[string]bool{"c1": true}, entries: make(map[string][]domain.DonorEntry)}
	donations := &stubDonationStore{byID: make(map[string]domain.Donation)}
	app, _ := newDonationsApp(campaigns, donations)

	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewBufferString(`{"campaign_id":"c1","amount":100}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, donations.byID, "gate must reject before any write")
}

func TestRecordDonation_PartialFailureSurfaced(t *testing.T) {
	campaigns := &stubCampaignStore{exists: map[string]bool{"c1": true}, entries: make(map[string][]domain.DonorEntry), failAppend: true}
	donations := &stubDonationStore{byID: make(map[string]domain.Donation)}
	app, tm := newDonationsApp(campaigns, donations)

	resp, err := app.Test(donationRequest(t, tm, `{"campaign_id":"c1","amount":100}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "PARTIAL_DONATION_FAILURE", out.Code)
	assert.Equal(t, true, out.Details["donation_inserted"])
	assert.Equal(t, false, out.Details["campaign_updated"])

	donationID, _ := out.Details["donation_id"].(string)
	require.NotEmpty(t, donationID)
	_, exists := donations.byID[donationID]
	assert.True(t, exists, "donation record survives the partial failure")
	assert.Empty(t, campaigns.entries["c1"])
}

func TestListMyDonations(t *testing.T) {
	campaigns := &stubCampaignStore{exists: map[string]bool{"c1": true}, entries: make(map[string][]domain.DonorEntry)}
	donations := &stubDonationStore{byID: map[string]domain.Donation{
		"d1": {ID: "d1", CampaignID: "c1", DonorEmail: "a@x.com", Amount: 100},
		"d2": {ID: "d2", CampaignID: "c1", DonorEmail: "other@x.com", Amount: 200},
	}}
	app, tm := newDonationsApp(campaigns, donations)

	token, _, err := tm.GenerateToken("a@x.com", "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/donations/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"d1"`)
	assert.NotContains(t, string(body), `"d2"`)
}
