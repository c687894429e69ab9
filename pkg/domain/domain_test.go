package domain_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_Valid(t *testing.T) {
	for _, s := range domain.Steps {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.Step("").Valid())
	assert.False(t, domain.Step("paying").Valid())

	assert.False(t, domain.StepAwaitingDate.HasOffers())
	assert.True(t, domain.StepSelecting.HasOffers())
}

func TestSnapshot_DeepCopy(t *testing.T) {
	s := domain.NewSession("abc")
	s.Preferences.Destination = "Rome"
	s.Preferences.Flights = []domain.FlightOffer{{Airline: "Delta", Price: 450}}
	s.Preferences.Hotels = []domain.HotelOffer{{Name: "Rome Inn", PricePerNight: 90}}
	s.Transcript.Append(domain.RoleUser, "Rome")

	c := s.Snapshot()
	require.Equal(t, s, c)

	c.Preferences.Flights[0].Price = 1
	c.Preferences.Hotels[0].Name = "changed"
	c.Transcript[0].Content = "changed"
	c.Transcript.Append(domain.RoleAssistant, "extra")

	assert.Equal(t, 450, s.Preferences.Flights[0].Price)
	assert.Equal(t, "Rome Inn", s.Preferences.Hotels[0].Name)
	assert.Equal(t, "Rome", s.Transcript[0].Content)
	assert.Len(t, s.Transcript, 1)

	var nilState *domain.SessionState
	assert.Nil(t, nilState.Snapshot())
}

func TestPreferences_Reset(t *testing.T) {
	p := domain.Preferences{
		Destination:  "Oslo",
		Date:         "2024-06-15",
		Flights:      []domain.FlightOffer{{Airline: "Delta"}},
		Confirmation: "CONF-10000",
	}
	assert.False(t, p.Empty())

	p.Reset()
	assert.True(t, p.Empty())
	assert.Equal(t, domain.Preferences{}, p)
}

func TestTranscript(t *testing.T) {
	var tr domain.Transcript
	assert.Nil(t, tr.Entries())

	tr.Append(domain.RoleUser, "one")
	tr.Append(domain.RoleAssistant, "two")
	tr.Append(domain.RoleUser, "one")

	entries := tr.Entries()
	require.Len(t, entries, 3, "no dedup")
	assert.Equal(t, "two", entries[1].Content)
	assert.Equal(t, tr.Entries(), entries, "reading twice yields the same entries")

	entries[0].Content = "mutated"
	assert.Equal(t, "one", tr[0].Content)
}

func TestSessionState_JSON(t *testing.T) {
	s := domain.NewSession("j1")
	s.Step = domain.StepSelecting
	s.Preferences.Hotels = []domain.HotelOffer{{Name: "Inn", PricePerNight: 80, Rating: 4.2, Location: "Airport Rd"}}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"step":"selecting"`)
	assert.Contains(t, string(data), `"price_per_night":80`)
	assert.NotContains(t, string(data), `"confirmation"`)
}

func TestProviderError(t *testing.T) {
	cause := errors.New("timeout")
	err := error(&domain.ProviderError{Op: domain.OpBookFlight, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "provider book_flight: timeout", err.Error())

	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.IsBooking())
	assert.False(t, (&domain.ProviderError{Op: domain.OpSearchHotels}).IsBooking())
}

func TestValidationError(t *testing.T) {
	err := &domain.ValidationError{Field: "date", Input: "soon", Reason: "bad format"}
	assert.Equal(t, `invalid date "soon": bad format`, err.Error())
}

func TestChainHooks(t *testing.T) {
	var order []string
	first := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { order = append(order, "first") },
	}
	second := domain.LifecycleHooks{
		OnTransition:   func(context.Context, *domain.TransitionEvent) { order = append(order, "second") },
		OnProviderCall: func(context.Context, *domain.ProviderEvent) { order = append(order, "call") },
	}

	hooks := domain.ChainHooks(first, second)
	hooks.OnTransition(context.Background(), &domain.TransitionEvent{})
	hooks.OnProviderCall(context.Background(), &domain.ProviderEvent{})
	hooks.OnProviderReturn(context.Background(), &domain.ProviderEvent{})

	assert.Equal(t, []string{"first", "second", "call"}, order)
}
