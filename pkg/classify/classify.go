// Package classify tags tweets by how they reference other accounts.
package classify

import "regexp"

// Tag labels the relationship a tweet's text expresses
type Tag string

const (
	// TagMention marks text that @-mentions another account
	TagMention Tag = "mention"
	// TagRetweet marks text carrying the classic retweet prefix
	TagRetweet Tag = "retweet"
	// TagNone marks text that references nobody
	TagNone Tag = ""
)

var (
	mentionPattern = regexp.MustCompile(`@([^\s]+)`)
	retweetPattern = regexp.MustCompile(`RT @([^:\s]+):`)
)

// Classify reports the tag for a tweet's text together with the handle it
// points at. Both patterns run; when a text is both a retweet and a mention
// the retweet wins, since the "RT @handle:" prefix names the actual origin
// of the content. Text matching neither pattern gets TagNone and an empty
// source.
//
// The extracted source is the raw capture, so a mention like "@alice," keeps
// the trailing punctuation the handle pattern cannot distinguish.
func Classify(text string) (Tag, string) {
	tag := TagNone
	source := ""

	if m := mentionPattern.FindStringSubmatch(text); m != nil {
		tag = TagMention
		source = m[1]
	}
	if m := retweetPattern.FindStringSubmatch(text); m != nil {
		tag = TagRetweet
		source = m[1]
	}

	return tag, source
}
