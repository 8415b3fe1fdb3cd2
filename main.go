package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"
)

type SearchResponse struct {
	Data     []Tweet  `json:"data"`
	Includes Includes `json:"includes"`
	Meta     Meta     `json:"meta"`
}

type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type Includes struct {
	Users []User `json:"users"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Location string `json:"location"`
}

type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

var (
	mentionRe = regexp.MustCompile(`@([^\s]+)`)
	retweetRe = regexp.MustCompile(`RT @([^:\s]+):`)
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: go run main.go <keyword>")
		return
	}

	keyword := os.Args[1]
	fmt.Printf("Starting collection for keyword: %s\n", keyword)

	// You'll need to generate this in the developer portal under Keys and tokens
	token := os.Getenv("XPLORE_BEARER_TOKEN")
	if token == "" {
		token = "YOUR_BEARER_TOKEN" // Add your bearer token here
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	fmt.Println("Starting tweet collection process...")
	tweets, users, err := collectTweets(client, token, keyword)
	if err != nil {
		fmt.Printf("Error collecting tweets: %v\n", err)
		return
	}

	fmt.Printf("Collected %d tweets total\n", len(tweets))

	outputFile := fmt.Sprintf("TweetsWith_%s.csv", keyword)
	fmt.Printf("Writing results to: %s\n", outputFile)

	err = writeCSV(outputFile, keyword, tweets, users)
	if err != nil {
		fmt.Printf("Error writing CSV: %v\n", err)
		return
	}

	fmt.Println("Collection completed successfully!")
}

func collectTweets(client *http.Client, token, keyword string) ([]Tweet, map[string]User, error) {
	maxRetries := 2
	retryDelay := 901 * time.Second // a bit over the 15 minute rate limit window

	endpoint := "https://api.twitter.com/2/tweets/search/recent"
	fmt.Printf("Fetching tweets from: %s\n", endpoint)

	var tweets []Tweet
	users := make(map[string]User)
	nextToken := ""
	page := 0

	for {
		page++
		fmt.Printf("Fetching page %d\n", page)

		params := url.Values{}
		params.Set("query", keyword)
		params.Set("max_results", "100")
		params.Set("expansions", "author_id")
		params.Set("tweet.fields", "id,text,author_id,created_at")
		params.Set("user.fields", "id,username,location")
		if nextToken != "" {
			params.Set("next_token", nextToken)
		}

		var result SearchResponse
		gotPage := false

		for i := 0; i < maxRetries; i++ {
			req, err := http.NewRequest("GET", endpoint+"?"+params.Encode(), nil)
			if err != nil {
				return nil, nil, fmt.Errorf("error creating request: %v", err)
			}

			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := client.Do(req)
			if err != nil {
				return nil, nil, fmt.Errorf("error making request: %v", err)
			}

			fmt.Printf("Response status code: %d\n", resp.StatusCode)

			if resp.StatusCode == 429 {
				resp.Body.Close()
				if i == maxRetries-1 {
					return nil, nil, fmt.Errorf("still rate limited after waiting %v", retryDelay)
				}
				fmt.Printf("Rate limit hit. Waiting %v before retrying...\n", retryDelay)
				time.Sleep(retryDelay)
				continue
			}

			if resp.StatusCode != http.StatusOK {
				bodyBytes, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				fmt.Printf("Response body: %s\n", string(bodyBytes))

				if resp.StatusCode == 401 || resp.StatusCode == 403 {
					return nil, nil, fmt.Errorf("authentication required or invalid bearer token")
				}
				return nil, nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				resp.Body.Close()
				return nil, nil, fmt.Errorf("error decoding JSON: %v", err)
			}
			resp.Body.Close()
			gotPage = true
			break
		}

		if !gotPage {
			return nil, nil, fmt.Errorf("max retries exceeded")
		}

		fmt.Printf("Found %d tweets on page %d\n", result.Meta.ResultCount, page)

		tweets = append(tweets, result.Data...)
		for _, user := range result.Includes.Users {
			users[user.ID] = user
		}

		if result.Meta.NextToken == "" {
			fmt.Println("No more pages available")
			break
		}
		nextToken = result.Meta.NextToken

		// Small delay between pages to stay under the rate limit
		time.Sleep(time.Second)
	}

	return tweets, users, nil
}

func writeCSV(path, keyword string, tweets []Tweet, users map[string]User) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"tweet_Id", "Author_Username", "Source_of_Tweet", "Author_id", "Tag", "Keyword", "Created_at", "Location", "Tweet_Content"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing header: %v", err)
	}

	for i, tweet := range tweets {
		username := "unknown"
		location := "unknown"
		if user, ok := users[tweet.AuthorID]; ok {
			username = user.Username
			if user.Location != "" {
				location = user.Location
			}
		}

		tag := ""
		source := ""
		if m := mentionRe.FindStringSubmatch(tweet.Text); m != nil {
			tag = "mention"
			source = m[1]
		}
		if m := retweetRe.FindStringSubmatch(tweet.Text); m != nil {
			tag = "retweet"
			source = m[1]
		}

		row := []string{tweet.ID, username, source, tweet.AuthorID, tag, keyword, tweet.CreatedAt, location, tweet.Text}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing row %d: %v", i+1, err)
		}
	}

	return nil
}
