package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafmy/sms-lms-v1-sub000/internal/review"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWebhookNotifier_AfterReview(t *testing.T) {
	tests := []struct {
		name       string
		result     review.SubmitResult
		statusCode int
		wantPosted bool
		wantErr    bool
	}{
		{
			name: "posts when an item reaches mastery",
			result: review.SubmitResult{
				OwnerID: 7, ItemID: 10, NewBox: 5, XPAwarded: 7, ReachedMastery: true,
			},
			statusCode: http.StatusOK,
			wantPosted: true,
		},
		{
			name: "skips ordinary reviews",
			result: review.SubmitResult{
				OwnerID: 7, ItemID: 10, NewBox: 3, ReachedMastery: false,
			},
			statusCode: http.StatusOK,
		},
		{
			name: "reports webhook failures",
			result: review.SubmitResult{
				OwnerID: 7, ItemID: 10, NewBox: 5, ReachedMastery: true,
			},
			statusCode: http.StatusInternalServerError,
			wantPosted: true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posted := false
			var received MasteryEvent
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				posted = true
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			notifier := NewWebhookNotifier(server.URL, "test-token", 5*time.Second, newTestLogger())
			defer func() { _ = notifier.Close() }()

			err := notifier.AfterReview(context.Background(), tt.result)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantPosted, posted)
			if tt.wantPosted {
				assert.Equal(t, tt.result.OwnerID, received.OwnerID)
				assert.Equal(t, tt.result.ItemID, received.ItemID)
			}
		})
	}
}
