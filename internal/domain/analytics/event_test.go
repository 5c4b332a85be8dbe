package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventValidate(t *testing.T) {
	event := &EngagementEvent{
		EntityType:     EntityRestaurant,
		EntityID:       "r1",
		EngagementType: EngagementLike,
		SessionID:      "sess-1",
		CreatedAt:      time.Now().UTC(),
	}
	assert.NoError(t, event.Validate())

	missing := *event
	missing.EntityType = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingEntityType)

	missing = *event
	missing.EntityID = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingEntityID)

	missing = *event
	missing.EngagementType = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingEngagementType)
}

func TestIsView(t *testing.T) {
	assert.True(t, (&EngagementEvent{EngagementType: EngagementView}).IsView())
	assert.False(t, (&EngagementEvent{EngagementType: EngagementLike}).IsView())
}

func TestNormalizeDeviceType(t *testing.T) {
	assert.Equal(t, DeviceMobile, NormalizeDeviceType("mobile"))
	assert.Equal(t, DeviceTablet, NormalizeDeviceType("tablet"))
	assert.Equal(t, DeviceDesktop, NormalizeDeviceType("desktop"))
	assert.Equal(t, DeviceUnknown, NormalizeDeviceType(""))
	assert.Equal(t, DeviceUnknown, NormalizeDeviceType("smart-fridge"))
}
