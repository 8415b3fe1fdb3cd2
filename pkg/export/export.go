// Package export turns collected tweets and user profiles into the CSV
// shapes downstream analysis tooling expects.
package export

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/tgsn-co/XPlore/pkg/classify"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// DefaultUsersFilename is where user profile exports land unless the caller
// picks a name
const DefaultUsersFilename = "output.csv"

// unknownField fills author columns when the author index cannot resolve a
// tweet's author
const unknownField = "unknown"

// MentionRow is one line of the keyword search export. The column names are
// a fixed contract with the analysis notebooks that consume these files, so
// the odd capitalization stays.
type MentionRow struct {
	TweetID        string `csv:"tweet_Id"`
	AuthorUsername string `csv:"Author_Username"`
	SourceOfTweet  string `csv:"Source_of_Tweet"`
	AuthorID       string `csv:"Author_id"`
	Tag            string `csv:"Tag"`
	Keyword        string `csv:"Keyword"`
	CreatedAt      string `csv:"Created_at"`
	Location       string `csv:"Location"`
	TweetContent   string `csv:"Tweet_Content"`
}

// UserRow is one line of the user profile export
type UserRow struct {
	ID             string `csv:"id"`
	Username       string `csv:"username"`
	Name           string `csv:"name"`
	CreatedAt      string `csv:"created_at"`
	Location       string `csv:"location"`
	Verified       bool   `csv:"verified"`
	Description    string `csv:"description"`
	FollowersCount int    `csv:"followers_count"`
	FollowingCount int    `csv:"following_count"`
	TweetCount     int    `csv:"tweet_count"`
	ListedCount    int    `csv:"listed_count"`
}

// BuildMentionRows converts collected tweets into export rows.
//
// Each tweet is classified for mention/retweet references, author fields are
// resolved through the author index ("unknown" when the index cannot), and
// duplicate tweet IDs are dropped keeping the first occurrence, so row order
// still follows arrival order.
func BuildMentionRows(tweets []twitter.Tweet, authors map[string]twitter.User, keyword string) []MentionRow {
	seen := make(map[string]struct{}, len(tweets))
	rows := make([]MentionRow, 0, len(tweets))

	for _, tweet := range tweets {
		if _, dup := seen[tweet.ID]; dup {
			continue
		}
		seen[tweet.ID] = struct{}{}

		username := unknownField
		location := unknownField
		if author, ok := authors[tweet.AuthorID]; ok {
			username = author.Username
			if author.Location != "" {
				location = author.Location
			}
		}

		tag, source := classify.Classify(tweet.Text)

		rows = append(rows, MentionRow{
			TweetID:        tweet.ID,
			AuthorUsername: username,
			SourceOfTweet:  source,
			AuthorID:       tweet.AuthorID,
			Tag:            string(tag),
			Keyword:        keyword,
			CreatedAt:      tweet.CreatedAt,
			Location:       location,
			TweetContent:   tweet.Text,
		})
	}

	return rows
}

// BuildUserRows converts hydrated user profiles into export rows, in the
// order the lookup returned them
func BuildUserRows(users []twitter.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, UserRow{
			ID:             user.ID,
			Username:       user.Username,
			Name:           user.Name,
			CreatedAt:      user.CreatedAt,
			Location:       user.Location,
			Verified:       user.Verified,
			Description:    user.Description,
			FollowersCount: user.PublicMetrics.FollowersCount,
			FollowingCount: user.PublicMetrics.FollowingCount,
			TweetCount:     user.PublicMetrics.TweetCount,
			ListedCount:    user.PublicMetrics.ListedCount,
		})
	}
	return rows
}

// WriteMentions writes rows with the header line. An empty slice still
// produces the header so downstream loaders see the schema.
func WriteMentions(w io.Writer, rows []MentionRow) error {
	return gocsv.Marshal(&rows, w)
}

// AppendMentions writes rows without the header line, for resumed
// collections extending an existing file
func AppendMentions(w io.Writer, rows []MentionRow) error {
	return gocsv.MarshalWithoutHeaders(&rows, w)
}

// WriteUsers writes user rows with the header line
func WriteUsers(w io.Writer, rows []UserRow) error {
	return gocsv.Marshal(&rows, w)
}

// MentionsFilename names the keyword search export. Path separators in the
// keyword are flattened so the name stays a plain file name.
func MentionsFilename(keyword string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(keyword)
	return "TweetsWith_" + safe + ".csv"
}
