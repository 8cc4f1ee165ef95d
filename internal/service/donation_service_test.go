package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/events"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

type memCampaigns struct {
	mu         sync.Mutex
	exists     map[string]bool
	entries    map[string][]domain.DonorEntry
	failAppend bool
}

func newMemCampaigns(ids ...string) *memCampaigns {
	c := &memCampaigns{
		exists:  make(map[string]bool),
		entries: make(map[string][]domain.DonorEntry),
	}
	for _, id := range ids {
		c.exists[id] = true
	}
	return c
}

func (c *memCampaigns) Create(ctx context.Context, campaign *domain.Campaign) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exists[campaign.ID] = true
	return nil
}

func (c *memCampaigns) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exists[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Campaign{ID: id, Donators: append([]domain.DonorEntry{}, c.entries[id]...)}, nil
}

func (c *memCampaigns) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	return nil, nil
}

func (c *memCampaigns) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Campaign, error) {
	return nil, nil
}

func (c *memCampaigns) SetPaused(ctx context.Context, id string, paused bool) error {
	return nil
}

func (c *memCampaigns) AppendDonator(ctx context.Context, campaignID string, entry domain.DonorEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAppend {
		return errors.New("store unavailable")
	}
	if !c.exists[campaignID] {
		return pgx.ErrNoRows
	}
	for _, existing := range c.entries[campaignID] {
		if existing.DonationID == entry.DonationID {
			return nil
		}
	}
	c.entries[campaignID] = append(c.entries[campaignID], entry)
	return nil
}

func (c *memCampaigns) count(campaignID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries[campaignID])
}

func (c *memCampaigns) contains(campaignID, donationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[campaignID] {
		if e.DonationID == donationID {
			return true
		}
	}
	return false
}

type memDonations struct {
	mu         sync.Mutex
	byID       map[string]domain.Donation
	failCreate bool
	campaigns  *memCampaigns
}

func newMemDonations(campaigns *memCampaigns) *memDonations {
	return &memDonations{byID: make(map[string]domain.Donation), campaigns: campaigns}
}

func (d *memDonations) Create(ctx context.Context, donation *domain.Donation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failCreate {
		return errors.New("store unavailable")
	}
	donation.CreatedAt = time.Now()
	d.byID[donation.ID] = *donation
	return nil
}

func (d *memDonations) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	donation, ok := d.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &donation, nil
}

func (d *memDonations) ListByDonor(ctx context.Context, email string, limit, offset int) ([]domain.Donation, error) {
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

func (d *memDonations) ListUnreconciled(ctx context.Context, limit int) ([]domain.Donation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []domain.Donation
	for _, donation := range d.byID {
		if !d.campaigns.contains(donation.CampaignID, donation.ID) {
			out = append(out, donation)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *memDonations) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byID)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) typesSeen() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newDonationFixture(campaignIDs ...string) (*DonationService, *memDonations, *memCampaigns, *eventRecorder) {
	campaigns := newMemCampaigns(campaignIDs...)
	donations := newMemDonations(campaigns)
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.Subscribe(events.EventDonationRecorded, recorder.record)
	dispatcher.Subscribe(events.EventDonationPartialFailure, recorder.record)

	svc := NewDonationService(DonationDependencies{
		DonationRepo: donations,
		CampaignRepo: campaigns,
		Dispatcher:   dispatcher,
	})
	return svc, donations, campaigns, recorder
}

func TestDonationRecord_Success(t *testing.T) {
	svc, donations, campaigns, recorder := newDonationFixture("c1")

	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "c1",
		DonorEmail: "a@x.com",
		DonorName:  "Alice",
		Amount:     2500,
	})
	require.NoError(t, err)

	assert.True(t, result.DonationInserted)
	assert.True(t, result.CampaignUpdated)
	assert.NotEmpty(t, result.DonationID)

	stored, err := donations.GetByID(context.Background(), result.DonationID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), stored.Amount)

	assert.Equal(t, 1, campaigns.count("c1"))
	assert.True(t, campaigns.contains("c1", result.DonationID))
	assert.Equal(t, []events.EventType{events.EventDonationRecorded}, recorder.typesSeen())
}

func TestDonationRecord_InsertFailureHasNoSideEffects(t *testing.T) {
	svc, donations, campaigns, recorder := newDonationFixture("c1")
	donations.failCreate = true

	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "c1",
		DonorEmail: "a@x.com",
		Amount:     100,
	})
	require.Error(t, err)

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PERSISTENCE_ERROR", de.Code)

	assert.False(t, result.DonationInserted)
	assert.False(t, result.CampaignUpdated)
	assert.Zero(t, donations.count())
	assert.Zero(t, campaigns.count("c1"))
	assert.Empty(t, recorder.typesSeen())
}

func TestDonationRecord_PartialFailure(t *testing.T) {
	svc, donations, campaigns, recorder := newDonationFixture("c1")
	campaigns.failAppend = true

	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "c1",
		DonorEmail: "a@x.com",
		Amount:     100,
	})
	require.Error(t, err)

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PARTIAL_DONATION_FAILURE", de.Code)
	assert.Equal(t, result.DonationID, de.Details["donation_id"])
	assert.Equal(t, true, de.Details["donation_inserted"])
	assert.Equal(t, false, de.Details["campaign_updated"])

	// The donation record survives; only the aggregate is behind.
	assert.True(t, result.DonationInserted)
	assert.False(t, result.CampaignUpdated)
	_, getErr := donations.GetByID(context.Background(), result.DonationID)
	require.NoError(t, getErr)
	assert.Zero(t, campaigns.count("c1"))
	assert.Equal(t, []events.EventType{events.EventDonationPartialFailure}, recorder.typesSeen())
}

func TestDonationRecord_MissingCampaignIsPartialFailure(t *testing.T) {
	svc, donations, _, _ := newDonationFixture()

	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "nope",
		DonorEmail: "a@x.com",
		Amount:     100,
	})
	require.Error(t, err)

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PARTIAL_DONATION_FAILURE", de.Code)
	assert.True(t, result.DonationInserted)
	assert.Equal(t, 1, donations.count())
}

func TestDonationRecord_Validation(t *testing.T) {
	svc, donations, _, _ := newDonationFixture("c1")

	cases := []DonationInput{
		{DonorEmail: "a@x.com", Amount: 100},
		{CampaignID: "c1", Amount: 100},
		{CampaignID: "c1", DonorEmail: "a@x.com", Amount: 0},
		{CampaignID: "c1", DonorEmail: "a@x.com", Amount: -5},
	}
	for _, input := range cases {
		_, err := svc.Record(context.Background(), input)
		require.Error(t, err)

		var de *apperrors.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
	}
	assert.Zero(t, donations.count())
}

func TestDonationRecord_ConcurrentSameCampaign(t *testing.T) {
	svc, donations, campaigns, _ := newDonationFixture("c1")

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(context.Background(), DonationInput{
				CampaignID: "c1",
				DonorEmail: "a@x.com",
				Amount:     100,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, n, donations.count())
	assert.Equal(t, n, campaigns.count("c1"), "no lost appends under concurrency")
}

func TestRetryAppend_Idempotent(t *testing.T) {
	svc, _, campaigns, _ := newDonationFixture("c1")

	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "c1",
		DonorEmail: "a@x.com",
		Amount:     100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RetryAppend(context.Background(), result.DonationID))
	require.NoError(t, svc.RetryAppend(context.Background(), result.DonationID))
	assert.Equal(t, 1, campaigns.count("c1"))
}

func TestReconcileOrphans(t *testing.T) {
	svc, _, campaigns, _ := newDonationFixture("c1")

	campaigns.failAppend = true
	result, err := svc.Record(context.Background(), DonationInput{
		CampaignID: "c1",
		DonorEmail: "a@x.com",
		Amount:     100,
	})
	require.Error(t, err)
	assert.Zero(t, campaigns.count("c1"))

	campaigns.failAppend = false
	repaired, err := svc.ReconcileOrphans(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.True(t, campaigns.contains("c1", result.DonationID))

	// A second pass finds nothing to repair.
	repaired, err = svc.ReconcileOrphans(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
