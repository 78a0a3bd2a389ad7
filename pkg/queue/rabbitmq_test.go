package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPriority(t *testing.T) {
	assert.Equal(t, uint8(0), ClampPriority(-3))
	assert.Equal(t, uint8(5), ClampPriority(5))
	assert.Equal(t, uint8(10), ClampPriority(42))
}

func TestEncodeDecodeTask(t *testing.T) {
	task := NotificationTask{
		Type:       TaskAnswer,
		UserID:     "user-1",
		ActorID:    "user-2",
		Title:      "New answer",
		EntityType: "question",
		EntityID:   "q-1",
		Data:       map[string]interface{}{"answer_id": "a-1"},
	}

	body, err := EncodeTask(task)
	require.NoError(t, err)

	decoded, err := DecodeTask(body)
	require.NoError(t, err)
	assert.Equal(t, task.UserID, decoded.UserID)
	assert.Equal(t, "a-1", decoded.Data["answer_id"])
}

func TestEncodeTask_MissingRecipient(t *testing.T) {
	_, err := EncodeTask(NotificationTask{Type: TaskVote})
	assert.Error(t, err)
}

func TestDecodeTask_Malformed(t *testing.T) {
	_, err := DecodeTask([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeTask([]byte(`{"type":"vote"}`))
	assert.Error(t, err)
}
