package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=10"`
	Minutes int    `json:"minutes" validate:"min=1,max=240"`
	Level   string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Expert"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.ValidateStruct(sampleRequest{Name: "Go", Minutes: 20, Level: "Expert"}))

	fields := v.ValidateStruct(sampleRequest{Minutes: 500, Level: "Guru"})
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Minutes must be at most 240", fields["minutes"])
	assert.Contains(t, fields["level"], "must be one of")
}

type courseRequest struct {
	Goal  string `json:"goal" validate:"required,goal"`
	Style string `json:"style" validate:"omitempty,style"`
}

func TestRegisterEnum(t *testing.T) {
	v := NewValidator().
		RegisterEnum("goal", []string{"Career Change", "Just Curious"}).
		RegisterEnum("style", []string{"Visual", "Video"})

	assert.Nil(t, v.ValidateStruct(courseRequest{Goal: "Career Change"}))
	assert.Nil(t, v.ValidateStruct(courseRequest{Goal: "Just Curious", Style: "Video"}))

	fields := v.ValidateStruct(courseRequest{Goal: "career change", Style: "Podcast"})
	assert.Equal(t, "Goal must be one of: Career Change, Just Curious", fields["goal"])
	assert.Equal(t, "Style must be one of: Visual, Video", fields["style"])

	fields = v.ValidateStruct(courseRequest{})
	assert.Equal(t, "Goal is required", fields["goal"])

	assert.Panics(t, func() { NewValidator().RegisterEnum("", []string{"a"}) })
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Coding", SanitizeString("  Cod\x00ing \n"))
}
