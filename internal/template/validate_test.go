package template

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestParseShape(t *testing.T) {
	s, err := ParseShape("multimedia", "true-false")
	require.NoError(t, err)
	assert.Equal(t, Shape{Prompt: PromptMultimedia, Response: ResponseTrueFalse}, s)

	_, err = ParseShape("audio", "true-false")
	assert.True(t, examerr.IsValidation(err))
	_, err = ParseShape("text", "essay")
	assert.True(t, examerr.IsValidation(err))
}

func TestValidatePayload(t *testing.T) {
	pool := uuid.New()
	mc := Shape{Prompt: PromptText, Response: ResponseMultipleChoice4}
	tf := Shape{Prompt: PromptText, Response: ResponseTrueFalse}
	ft := Shape{Prompt: PromptText, Response: ResponseFreeText255}

	cases := []struct {
		name    string
		shape   Shape
		media   []Media
		answers []ValidAnswer
		field   string
	}{
		{"multimedia without media", Shape{Prompt: PromptMultimedia, Response: ResponseFreeText255}, nil, nil, "media"},
		{"media without url", Shape{Prompt: PromptMultimedia, Response: ResponseFreeText255}, []Media{{MediaContentType: "image/png"}}, nil, "media[0]"},
		{"mc without answers", mc, nil, nil, "validAnswers"},
		{"both text and bool", tf, nil, []ValidAnswer{{Text: strPtr("x"), BooleanValue: boolPtr(true)}}, "validAnswers[0]"},
		{"neither text nor bool", ft, nil, []ValidAnswer{{}}, "validAnswers[0]"},
		{"pool on true-false", tf, nil, []ValidAnswer{{BooleanValue: boolPtr(true), FodderPoolID: &pool}}, "validAnswers[0]"},
		{"text on true-false", tf, nil, []ValidAnswer{{Text: strPtr("True")}}, "validAnswers[0]"},
		{"mc first answer without pool", mc, nil, []ValidAnswer{{Text: strPtr("a")}, {Text: strPtr("b"), FodderPoolID: &pool}}, "validAnswers[0].fodderPoolId"},
		{"free text too long", ft, nil, []ValidAnswer{{Text: strPtr(strings.Repeat("é", FreeTextMaxLen+1))}}, "validAnswers[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.shape.ValidatePayload(tc.media, tc.answers)
			var verr *examerr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	assert.NoError(t, mc.ValidatePayload(nil, []ValidAnswer{{Text: strPtr("Nov 9 1989"), FodderPoolID: &pool}}))
	assert.NoError(t, tf.ValidatePayload(nil, []ValidAnswer{{BooleanValue: boolPtr(false)}}))
	assert.NoError(t, ft.ValidatePayload(nil, nil))
	assert.NoError(t, ft.ValidatePayload(nil, []ValidAnswer{{Text: strPtr(strings.Repeat("é", FreeTextMaxLen))}}))
}

func TestSpecToRecordNormalizesTopics(t *testing.T) {
	rec, err := Spec{
		UserPromptType:   "text",
		UserResponseType: "free-text-255",
		ExclusivityType:  "exam-practice-both",
		Topics:           []string{" History ", "history", "", "Europe"},
	}.toRecord("author-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"history", "europe"}, rec.Topics)
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "author-1", rec.CreatedBy)

	_, err = Spec{UserPromptType: "text", UserResponseType: "free-text-255", ExclusivityType: "sometimes"}.toRecord("a")
	assert.True(t, examerr.IsValidation(err))
}

func TestExclusivityAllows(t *testing.T) {
	assert.True(t, ExclusivityExamOnly.AllowsLive())
	assert.False(t, ExclusivityExamOnly.AllowsPractice())
	assert.True(t, ExclusivityPracticeOnly.AllowsPractice())
	assert.False(t, ExclusivityPracticeOnly.AllowsLive())
	assert.True(t, ExclusivityBoth.AllowsLive())
	assert.True(t, ExclusivityBoth.AllowsPractice())
}
