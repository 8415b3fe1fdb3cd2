package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTag    Tag
		wantSource string
	}{
		{
			name:       "plain mention",
			text:       "@alice what do you make of this?",
			wantTag:    TagMention,
			wantSource: "alice",
		},
		{
			name:       "mention mid text",
			text:       "agreeing with @bob here",
			wantTag:    TagMention,
			wantSource: "bob",
		},
		{
			name:       "retweet",
			text:       "RT @origin: the original take",
			wantTag:    TagRetweet,
			wantSource: "origin",
		},
		{
			name:       "retweet beats the mentions inside it",
			text:       "RT @origin: thanks @alice and @bob",
			wantTag:    TagRetweet,
			wantSource: "origin",
		},
		{
			name:       "no reference",
			text:       "just shouting into the void",
			wantTag:    TagNone,
			wantSource: "",
		},
		{
			name:       "first mention wins among several",
			text:       "@first then @second",
			wantTag:    TagMention,
			wantSource: "first",
		},
		{
			name:       "mention keeps trailing punctuation",
			text:       "cc @alice, thoughts?",
			wantTag:    TagMention,
			wantSource: "alice,",
		},
		{
			name:       "retweet source stops before the colon",
			text:       "RT @long_handle_99: content",
			wantTag:    TagRetweet,
			wantSource: "long_handle_99",
		},
		{
			name:       "lowercase rt is not a retweet",
			text:       "rt @someone: lowercased",
			wantTag:    TagMention,
			wantSource: "someone:",
		},
		{
			name:       "empty text",
			text:       "",
			wantTag:    TagNone,
			wantSource: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, source := Classify(tt.text)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}
