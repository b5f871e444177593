package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var searchTag string

var uploadCmd = &cobra.Command{
	Use:   "upload [file-path]...",
	Short: "Upload one or more documents for analysis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			part, err := writer.CreateFormFile("files", filepath.Base(path))
			if err != nil {
				return err
			}
			if _, err := part.Write(data); err != nil {
				return err
			}
		}
		if err := writer.Close(); err != nil {
			return err
		}

		resp, err := http.Post(serverURL+"/api/v1/documents/upload", writer.FormDataContentType(), &body)
		if err != nil {
			return err
		}
		return printResponse(resp)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/api/v1/documents")
	},
}

var showCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document with its notes and links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/api/v1/documents/" + args[0])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and everything attached to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := http.NewRequest(http.MethodDelete, serverURL+"/api/v1/documents/"+args[0], nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		return printResponse(resp)
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [doc-id]",
	Short: "Regenerate the AI analysis for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/documents/"+args[0]+"/regenerate", nil)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search documents by term and/or tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if len(args) == 1 {
			q.Set("q", args[0])
		}
		if searchTag != "" {
			q.Set("tag", searchTag)
		}
		return getJSON("/api/v1/search?" + q.Encode())
	},
}

var noteCmd = &cobra.Command{
	Use:   "note [doc-id] [text]",
	Short: "Add a note to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/documents/"+args[0]+"/notes", map[string]string{"note": args[1]})
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag [doc-id] [tag]",
	Short: "Add a tag to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/documents/"+args[0]+"/tags", map[string]string{"tag": args[1]})
	},
}

var linkCmd = &cobra.Command{
	Use:   "link [doc-id] [target-doc-id]",
	Short: "Link a document to another document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/documents/"+args[0]+"/links", map[string]string{"linked_doc_id": args[1]})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getJSON("/api/v1/tags")
	},
}

func getJSON(path string) error {
	resp, err := http.Get(serverURL + path)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func postJSON(path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	resp, err := http.Post(serverURL+path, "application/json", body)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

// printResponse pretty-prints the JSON body and fails on non-2xx statuses.
func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(data))
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func init() {
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "filter by tag")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(tagsCmd)
}
