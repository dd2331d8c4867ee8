package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <code> <name>",
		Short: "Register a display name in a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, name := args[0], args[1]

			var result RegisterResult

			req := map[string]string{"display_name": name}
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/participants", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSubmitCmd() *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "submit <code> <name> [text]",
		Short: "Submit an anonymous sentence (or image) as a registered participant",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, name := args[0], args[1]

			req := map[string]string{"author": name}
			if len(args) == 3 {
				req["text"] = args[2]
			}

			if imagePath != "" {
				dataURL, err := encodeImage(imagePath)
				if err != nil {
					return err
				}
				req["image"] = dataURL
			}

			var result SubmitResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/sentences", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to submit instead of (or alongside) text")

	return cmd
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <sentence-id> <guesser> <author>",
		Short: "Guess who wrote a sentence",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			id, err := parseSentenceID(args[1])
			if err != nil {
				return err
			}

			req := map[string]string{"guesser": args[2], "guess": args[3]}

			var result GuessResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/sentences/%d/guess", code, id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRevealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <code> <sentence-id>",
		Short: "Reveal a sentence's author to everyone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			id, err := parseSentenceID(args[1])
			if err != nil {
				return err
			}

			var result RevealResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/sentences/%d/reveal", code, id), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <code> <sentence-id>",
		Short: "Select the sentence currently under discussion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			id, err := parseSentenceID(args[1])
			if err != nil {
				return err
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/sentences/%d/select", code, id), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Selected sentence #%d", id))
			return nil
		},
	}
}

func parseSentenceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid sentence id %q", raw)
	}
	return id, nil
}

// encodeImage reads an image file and encodes it as a data URL the way
// browser clients do
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := http.DetectContentType(data)
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
}
