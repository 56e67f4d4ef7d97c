package filecsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"lently/domain/model"
	"lently/infrastructure/logger"
)

var commentHeader = []string{
	"comment_id", "author", "text", "published_at", "like_count",
	"category", "sentiment_score", "sentiment_label", "toxicity_score",
}

// WriteComments streams a comment export as CSV.
func WriteComments(w io.Writer, comments []model.Comment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(commentHeader); err != nil {
		return err
	}
	for _, c := range comments {
		record := []string{
			c.YouTubeCommentID,
			c.Author,
			c.Text,
			c.PublishedAt,
			fmt.Sprintf("%d", c.LikeCount),
			c.Category,
			fmt.Sprintf("%.2f", c.SentimentScore),
			c.SentimentLabel,
			fmt.Sprintf("%.2f", c.ToxicityScore),
		}
		if err := writer.Write(record); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while writing CSV record")
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
