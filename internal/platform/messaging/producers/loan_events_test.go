package producers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// MockKafkaWriter is a mock implementation of KafkaWriter
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestProducer(writer KafkaWriter) *LoanEventProducer {
	return &LoanEventProducer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		writer: writer,
		topic:  "loan_events",
	}
}

func TestLoanEventProducer_Publish(t *testing.T) {
	t.Run("KeysMessageByLoanID", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := newTestProducer(writer)

		event := loan.Event{
			Type:       loan.EventLoanCreated,
			LoanID:     "loan_1_abc",
			Amount:     3000,
			OccurredAt: time.Now().UTC(),
		}

		writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
			return len(msgs) == 1 && string(msgs[0].Key) == "loan_1_abc"
		})).Return(nil)

		require.NoError(t, producer.Publish(context.Background(), event.LoanID, event))
		writer.AssertExpectations(t)
	})

	t.Run("EncodesEventAsJSON", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := newTestProducer(writer)

		var captured []byte
		writer.On("WriteMessages", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				msgs := args.Get(1).([]kafka.Message)
				captured = msgs[0].Value
			}).Return(nil)

		event := loan.Event{
			Type:        loan.EventPaymentRecorded,
			LoanID:      "loan_1_abc",
			Amount:      525,
			Installment: 2,
			OccurredAt:  time.Now().UTC(),
		}
		require.NoError(t, producer.Publish(context.Background(), event.LoanID, event))

		assert.Contains(t, string(captured), `"type":"PAYMENT_RECORDED"`)
		assert.Contains(t, string(captured), `"loan_id":"loan_1_abc"`)
		assert.Contains(t, string(captured), `"installment":2`)
	})

	t.Run("WriteFailurePropagates", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := newTestProducer(writer)

		writer.On("WriteMessages", mock.Anything, mock.Anything).
			Return(errors.New("broker unreachable"))

		err := producer.Publish(context.Background(), "loan_1_abc", loan.Event{Type: loan.EventLoanDeleted, LoanID: "loan_1_abc"})
		assert.ErrorContains(t, err, "failed to publish loan event")
	})

	t.Run("UnmarshalableValueFails", func(t *testing.T) {
		writer := new(MockKafkaWriter)
		producer := newTestProducer(writer)

		err := producer.Publish(context.Background(), "loan_1_abc", make(chan int))
		assert.ErrorContains(t, err, "failed to marshal loan event")
		writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestLoanEventProducer_Close(t *testing.T) {
	writer := new(MockKafkaWriter)
	producer := newTestProducer(writer)

	writer.On("Close").Return(nil)
	require.NoError(t, producer.Close())
	writer.AssertExpectations(t)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), "any", struct{}{}))
	assert.NoError(t, p.Close())
}
