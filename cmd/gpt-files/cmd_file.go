package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/hn12404988/gpt-files/internal/manager"
)

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileUploadCmd, fileUploadDirCmd, fileGetCmd, fileListCmd, fileDeleteCmd, fileDetachCmd)

	fileUploadCmd.Flags().String("name", "", "remote filename (defaults to the local basename)")
	fileUploadCmd.Flags().Bool("overwrite", false, "replace an existing remote file with the same name")
	fileUploadCmd.Flags().String("dest", string(manager.DestinationVectorStore), "attach destination: vector-store or code")
	fileUploadCmd.Flags().Bool("convert-html", false, "convert HTML files to markdown before upload")

	fileUploadDirCmd.Flags().Bool("overwrite", false, "replace existing remote files with colliding names")
	fileUploadDirCmd.Flags().String("dest", string(manager.DestinationVectorStore), "attach destination: vector-store or code")
	fileUploadDirCmd.Flags().Bool("convert-html", false, "convert HTML files to markdown before upload")
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage uploaded files",
}

var fileUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file and attach it to the assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		aid, err := assistantID()
		if err != nil {
			return err
		}
		m, err := newManager()
		if err != nil {
			return err
		}
		destFlag, _ := cmd.Flags().GetString("dest")
		dest, err := manager.ParseDestination(destFlag)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		convertHTML, _ := cmd.Flags().GetBool("convert-html")

		result, err := m.UploadFile(cmd.Context(), manager.UploadOptions{
			AssistantID: aid,
			Path:        args[0],
			Name:        name,
			Overwrite:   overwrite,
			Destination: dest,
			ConvertHTML: convertHTML,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Uploaded %s (%s, %d bytes)\n",
			result.File.Filename, result.File.ID, result.File.Bytes)
		if result.Attachment != nil {
			fmt.Fprintf(os.Stdout, "Attached to vector store %s (status %s)\n",
				result.VectorStoreID, result.Attachment.Status)
		} else {
			fmt.Fprintln(os.Stdout, "Attached to code interpreter")
		}
		if result.Tokens > 0 {
			fmt.Fprintf(os.Stdout, "~%d tokens\n", result.Tokens)
		}
		return nil
	},
}

var fileUploadDirCmd = &cobra.Command{
	Use:   "upload-dir <dir>",
	Short: "Upload every file in a directory (rolls back on failure)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		aid, err := assistantID()
		if err != nil {
			return err
		}
		m, err := newManager()
		if err != nil {
			return err
		}
		destFlag, _ := cmd.Flags().GetString("dest")
		dest, err := manager.ParseDestination(destFlag)
		if err != nil {
			return err
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		convertHTML, _ := cmd.Flags().GetBool("convert-html")

		result, err := m.UploadDir(cmd.Context(), manager.UploadDirOptions{
			AssistantID: aid,
			Dir:         args[0],
			Overwrite:   overwrite,
			Destination: dest,
			ConvertHTML: convertHTML,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Uploaded %d files", len(result.Uploaded))
		if len(result.Replaced) > 0 {
			fmt.Fprintf(os.Stdout, ", replaced %d", len(result.Replaced))
		}
		if result.Tokens > 0 {
			fmt.Fprintf(os.Stdout, " (~%d tokens)", result.Tokens)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

var fileGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a file's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		f, err := c.GetFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(f)
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all uploaded files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		files, err := c.ListFiles(cmd.Context())
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No files.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tBYTES\tCREATED\tPURPOSE")
		for _, f := range files {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				f.ID,
				f.Filename,
				f.Bytes,
				formatTime(f.CreatedAt),
				f.Purpose,
			)
		}
		return w.Flush()
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Detach a file everywhere and delete it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		aid, err := assistantID()
		if err != nil {
			return err
		}
		m, err := newManager()
		if err != nil {
			return err
		}
		if err := m.DeleteFile(cmd.Context(), aid, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "File %s deleted.\n", args[0])
		return nil
	},
}

var fileDetachCmd = &cobra.Command{
	Use:   "detach <id>",
	Short: "Detach a file from the vector store and code interpreter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		aid, err := assistantID()
		if err != nil {
			return err
		}
		m, err := newManager()
		if err != nil {
			return err
		}
		result, err := m.DetachFile(cmd.Context(), aid, args[0])
		if err != nil {
			return err
		}
		switch {
		case result.VectorStore && result.Code:
			fmt.Fprintln(os.Stdout, "Detached from vector store and code interpreter.")
		case result.VectorStore:
			fmt.Fprintln(os.Stdout, "Detached from vector store.")
		case result.Code:
			fmt.Fprintln(os.Stdout, "Detached from code interpreter.")
		default:
			fmt.Fprintln(os.Stdout, "File was not attached anywhere.")
		}
		return nil
	},
}
