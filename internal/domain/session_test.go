package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentSession_LatestTransaction(t *testing.T) {
	empty := &PaymentSession{}
	assert.Nil(t, empty.LatestTransaction())

	noTx := &PaymentSession{Invoices: []Invoice{{PaymentRequestID: 1}}}
	assert.Nil(t, noTx.LatestTransaction())

	session := &PaymentSession{
		Invoices: []Invoice{
			{PaymentRequestID: 1, Transactions: []ProviderTransaction{{ID: 10}}},
			{PaymentRequestID: 2, Transactions: []ProviderTransaction{{ID: 20}, {ID: 21}}},
		},
	}
	latest := session.LatestTransaction()
	assert.NotNil(t, latest)
	assert.Equal(t, 21, latest.ID)
}

func TestPaymentSession_HasSettledTransaction(t *testing.T) {
	withTx := []Invoice{{Transactions: []ProviderTransaction{{ID: 10, Status: StatusConfirmed}}}}

	tests := []struct {
		name    string
		session PaymentSession
		want    bool
	}{
		{"confirmed with transaction", PaymentSession{Status: StatusConfirmed, Invoices: withTx}, true},
		{"waiting with transaction", PaymentSession{Status: StatusWaiting, Invoices: withTx}, true},
		{"confirmed without transaction", PaymentSession{Status: StatusConfirmed}, false},
		{"cancelled with transaction", PaymentSession{Status: StatusCancelled, Invoices: withTx}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.HasSettledTransaction())
		})
	}
}

func TestProviderStatus_IsCheckoutFailure(t *testing.T) {
	failures := []ProviderStatus{StatusCancelled, StatusDeclined, StatusExpired, StatusError}
	for _, s := range failures {
		assert.True(t, s.IsCheckoutFailure(), "status %s", s)
	}

	nonFailures := []ProviderStatus{StatusConfirmed, StatusWaiting, StatusRefunded, StatusUncaptured}
	for _, s := range nonFailures {
		assert.False(t, s.IsCheckoutFailure(), "status %s", s)
	}
}
