package og

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

type stubVenue struct {
	submitErr error
	cancelErr error
	submitted []schema.Order
	canceled  []string
}

func (v *stubVenue) SubmitOrder(_ context.Context, order schema.Order) (string, error) {
	if v.submitErr != nil {
		return "", v.submitErr
	}
	v.submitted = append(v.submitted, order)
	return "sim_" + order.ID, nil
}

func (v *stubVenue) CancelOrder(_ context.Context, id string) error {
	v.canceled = append(v.canceled, id)
	return v.cancelErr
}

func order(id string) schema.Order {
	return schema.Order{
		ID:       id,
		Symbol:   "BTCUSDT",
		Side:     schema.OrderSideBuy,
		Kind:     schema.OrderKindMarket,
		Quantity: 0.001,
	}
}

func TestSubmitKeepsPendingOnSuccess(t *testing.T) {
	venue := &stubVenue{}
	gateway := NewGateway(venue)

	venueID, err := gateway.Submit(context.Background(), order("a"))
	require.NoError(t, err)
	assert.Equal(t, "sim_a", venueID)

	// "known to have been sent": the record stays after success
	assert.Equal(t, []string{"a"}, gateway.PendingIDs())
}

func TestSubmitRollsBackOnFailure(t *testing.T) {
	venue := &stubVenue{}
	gateway := NewGateway(venue)

	_, err := gateway.Submit(context.Background(), order("a"))
	require.NoError(t, err)
	before := gateway.PendingIDs()

	venue.submitErr = errors.New("venue down")
	_, err = gateway.Submit(context.Background(), order("b"))
	require.Error(t, err)

	// pending id set identical to its pre-call state
	assert.Equal(t, before, gateway.PendingIDs())
}

func TestCancelRemovesPending(t *testing.T) {
	venue := &stubVenue{}
	gateway := NewGateway(venue)

	_, err := gateway.Submit(context.Background(), order("a"))
	require.NoError(t, err)

	require.NoError(t, gateway.Cancel(context.Background(), "a"))
	assert.Empty(t, gateway.PendingIDs())
	assert.Equal(t, []string{"a"}, venue.canceled)
}

func TestCancelUnknownIDIsIdempotentSuccess(t *testing.T) {
	venue := &stubVenue{}
	gateway := NewGateway(venue)

	require.NoError(t, gateway.Cancel(context.Background(), "missing"))
	assert.Empty(t, venue.canceled, "no venue call for an unknown id")
}

func TestCancelIgnoresVenueFailure(t *testing.T) {
	venue := &stubVenue{cancelErr: errors.New("reject")}
	gateway := NewGateway(venue)

	_, err := gateway.Submit(context.Background(), order("a"))
	require.NoError(t, err)

	// in-memory removal is authoritative
	require.NoError(t, gateway.Cancel(context.Background(), "a"))
	assert.Empty(t, gateway.PendingIDs())
}

func TestPendingReturnsCopy(t *testing.T) {
	gateway := NewGateway(&stubVenue{})

	_, err := gateway.Submit(context.Background(), order("a"))
	require.NoError(t, err)

	pending := gateway.Pending()
	pending[0].ID = "mutated"
	assert.Equal(t, []string{"a"}, gateway.PendingIDs())
}
