package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/util"
)

// handlePost publishes a new post
func (h *Handler) handlePost(args []string) error {
	if len(args) == 0 {
		err := fmt.Errorf("usage: post <message> or post - (stdin)")
		h.output.Error(err)
		return err
	}

	var message string
	if args[0] == "-" {
		data, err := io.ReadAll(h.stdin)
		if err != nil {
			h.output.Error(fmt.Errorf("failed to read from stdin: %w", err))
			return err
		}
		message = string(data)
	} else {
		message = strings.Join(args, " ")
	}

	message = util.NormalizeInput(message)
	if message == "" {
		err := fmt.Errorf("post is empty")
		h.output.Error(err)
		return err
	}
	if len([]rune(message)) > domain.MaxPostChars {
		err := fmt.Errorf("post is over the %d character limit", domain.MaxPostChars)
		h.output.Error(err)
		return err
	}

	post, err := h.gateway.CreatePost(context.Background(), message)
	if err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		h.output.JSON(PostResponse{
			ID:        post.Id,
			Content:   post.Content,
			CreatedAt: post.CreatedAt.Time,
		})
	} else {
		h.output.Success("Posted (id %d)\n", post.Id)
	}
	return nil
}
