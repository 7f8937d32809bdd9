package stripead_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/adapters/observability"
	stripead "hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/domain"
)

func TestProvider_CreateIntent_SendsAmountAndMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "30000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "h1", r.PostForm.Get("metadata[hotelId]"))
		assert.Equal(t, "u1", r.PostForm.Get("metadata[userId]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":30000,"currency":"usd",
			"status":"requires_payment_method","client_secret":"pi_123_secret_abc",
			"metadata":{"hotelId":"h1","userId":"u1"}}`))
	}))
	defer ts.Close()

	p, err := stripead.New("sk_test_x", ts.URL)
	require.NoError(t, err)

	pi, err := p.CreateIntent(context.Background(), 30000, "usd", map[string]string{"hotelId": "h1", "userId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", pi.ID)
	assert.Equal(t, "pi_123_secret_abc", pi.ClientSecret)
	assert.EqualValues(t, 30000, pi.AmountCents)
	assert.Equal(t, "requires_payment_method", pi.Status)
}

func TestProvider_GetIntent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/payment_intents/pi_ok":
			_, _ = w.Write([]byte(`{"id":"pi_ok","object":"payment_intent","amount":20000,"currency":"usd",
				"status":"succeeded","metadata":{"hotelId":"h1","userId":"u1"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing",
				"message":"No such payment_intent"}}`))
		}
	}))
	defer ts.Close()

	p, err := stripead.New("sk_test_x", ts.URL)
	require.NoError(t, err)

	pi, err := p.GetIntent(context.Background(), "pi_ok")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, pi.Status)
	assert.Equal(t, "h1", pi.Metadata["hotelId"])

	_, err = p.GetIntent(context.Background(), "pi_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvider_DoesNotRetry(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"unavailable"}}`))
	}))
	defer ts.Close()

	p, err := stripead.New("sk_test_x", ts.URL)
	require.NoError(t, err)

	_, err = p.GetIntent(context.Background(), "pi_any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestProvider_TransportErrorIsCounted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	p, err := stripead.New("sk_test_x", base)
	require.NoError(t, err)

	before := testutil.CollectAndCount(observability.ExternalErrors)
	_, err = p.GetIntent(context.Background(), "pi_any")
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.CollectAndCount(observability.ExternalErrors))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := stripead.New("", "")
	assert.Error(t, err)
}
