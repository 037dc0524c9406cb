package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	key string
	raw []byte
}

// fakeListClient records RPUSH calls and serves BLPOP from a preloaded list.
type fakeListClient struct {
	pushes  []pushed
	popable [][]byte
}

func (f *fakeListClient) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.pushes = append(f.pushes, pushed{key: key, raw: v.([]byte)})
	}
	return redis.NewIntResult(int64(len(values)), nil)
}

func (f *fakeListClient) BLPop(_ context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	if len(f.popable) == 0 {
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	raw := f.popable[0]
	f.popable = f.popable[1:]
	return redis.NewStringSliceResult([]string{keys[0], string(raw)}, nil)
}

func (f *fakeListClient) jobAt(t *testing.T, i int) Job {
	t.Helper()
	require.Greater(t, len(f.pushes), i)
	var job Job
	require.NoError(t, json.Unmarshal(f.pushes[i].raw, &job))
	return job
}

func TestEnqueueInvitationEmail(t *testing.T) {
	client := &fakeListClient{}
	q := NewQueue(client, nil)

	payload := InvitationEmailPayload{
		InvitationID:     uuid.New(),
		OrganizationName: "Loud Crowd Events",
		RecipientEmail:   "crew@example.com",
		Token:            "tok-123",
	}
	require.NoError(t, q.EnqueueInvitationEmail(context.Background(), payload))

	require.Len(t, client.pushes, 1)
	assert.Equal(t, QueueInvitations, client.pushes[0].key)

	job := client.jobAt(t, 0)
	assert.Equal(t, JobTypeInvitationEmail, job.Type)
	assert.Equal(t, 0, job.Attempt)

	var got InvitationEmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, payload.InvitationID, got.InvitationID)
	assert.Equal(t, payload.RecipientEmail, got.RecipientEmail)
}

func TestDequeue_ReturnsJob(t *testing.T) {
	raw, err := json.Marshal(Job{ID: "j1", Type: JobTypeInvitationEmail, Attempt: 1})
	require.NoError(t, err)
	client := &fakeListClient{popable: [][]byte{raw}}
	q := NewQueue(client, nil)

	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "j1", job.ID)
	assert.Equal(t, 1, job.Attempt)

	// empty list: redis.Nil maps to no job, no error
	job, err = q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestRetry_ReenqueuesUntilMaxThenDeadLetters(t *testing.T) {
	client := &fakeListClient{}
	q := NewQueue(client, nil)
	job := &Job{ID: "j-fail", Type: JobTypeInvitationEmail, Attempt: 0}

	for i := 0; i < MaxRetries; i++ {
		require.NoError(t, q.Retry(context.Background(), job))
	}

	require.Len(t, client.pushes, MaxRetries)
	// first two attempts go back on the work queue
	assert.Equal(t, QueueInvitations, client.pushes[0].key)
	assert.Equal(t, 1, client.jobAt(t, 0).Attempt)
	assert.Equal(t, QueueInvitations, client.pushes[1].key)
	assert.Equal(t, 2, client.jobAt(t, 1).Attempt)
	// the third lands in the DLQ
	assert.Equal(t, QueueDLQ, client.pushes[2].key)
	assert.Equal(t, 3, client.jobAt(t, 2).Attempt)
}
