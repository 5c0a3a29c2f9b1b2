package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeListCmd, storeGetCmd, storeFilesCmd, storeDeleteCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage vector stores",
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all vector stores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		stores, err := c.ListVectorStores(cmd.Context())
		if err != nil {
			return err
		}

		if len(stores) == 0 {
			fmt.Println("No vector stores.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tFILES\tBYTES\tCREATED")
		for _, vs := range stores {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				vs.ID,
				vs.Name,
				vs.Status,
				vs.FileCounts.Total,
				vs.UsageBytes,
				formatTime(vs.CreatedAt),
			)
		}
		return w.Flush()
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a vector store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		vs, err := c.GetVectorStore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(vs)
	},
}

var storeFilesCmd = &cobra.Command{
	Use:   "files <id>",
	Short: "List a vector store's file attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		files, err := c.ListStoreFiles(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No files attached.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FILE ID\tSTATUS\tBYTES\tCREATED")
		for _, vsf := range files {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				vsf.ID,
				vsf.Status,
				vsf.UsageBytes,
				formatTime(vsf.CreatedAt),
			)
		}
		return w.Flush()
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a vector store (attached files keep their records)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.DeleteVectorStore(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Vector store %s deleted.\n", args[0])
		return nil
	},
}
