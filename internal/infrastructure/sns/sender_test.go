package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestSendSMS_PublishesTransactional(t *testing.T) {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		attr := in.MessageAttributes["AWS.SNS.SMS.SMSType"]
		return *in.PhoneNumber == "+15551234567" &&
			*in.Message == "code 123456" &&
			*attr.StringValue == "Transactional"
	})).Return(&sns.PublishOutput{}, nil)

	require.NoError(t, NewSenderWithClient(p).SendSMS(context.Background(), "+15551234567", "code 123456"))
	p.AssertExpectations(t)
}

func TestSendSMS_WrapsError(t *testing.T) {
	p := &mockPublisher{}
	boom := errors.New("opted out")
	p.On("Publish", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewSenderWithClient(p).SendSMS(context.Background(), "+15551234567", "x")
	assert.ErrorIs(t, err, boom)
}
