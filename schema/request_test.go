package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPickupRequestDefaults(t *testing.T) {
	r := NewPickupRequest(PickupRequestInput{
		Name:        "Ann",
		Email:       "a@x.com",
		Phone:       "555",
		Description: "old fridge",
		Date:        "2024-05-01",
		Location:    "12 Main St",
	})

	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "", r.Image)
	assert.Equal(t, "", r.ID, "id is assigned by the store")
	assert.True(t, r.CreatedAt.IsZero(), "created time is assigned by the store")
	assert.Equal(t, "Ann", r.Name)
	assert.Equal(t, "2024-05-01", r.Date)
}

func TestNewPickupRequestAcceptsEmptyInput(t *testing.T) {
	r := NewPickupRequest(PickupRequestInput{})

	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "", r.Name)
	assert.Equal(t, "", r.Location)
}

func TestPickupRequestInputDropsUnknownFields(t *testing.T) {
	var in PickupRequestInput
	err := json.Unmarshal([]byte(`{"name":"Ann","status":"Collected","_id":"x","admin":true}`), &in)
	assert.NoError(t, err)

	r := NewPickupRequest(in)
	assert.Equal(t, "Ann", r.Name)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "", r.ID)
}

func TestPickupRequestJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(PickupRequest{ID: "abc", Status: StatusPending})
	assert.NoError(t, err)

	var m map[string]interface{}
	assert.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"_id", "name", "email", "phone", "description", "date", "location", "image", "status", "createdAt"} {
		_, ok := m[key]
		assert.True(t, ok, "missing json field %s", key)
	}
}
