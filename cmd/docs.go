package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	docsName          string
	docsNotReference  bool
	docsReferenceOnly bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the reference document library",
	Long: `Manage the library of reference documents known to the assistant.

Only metadata is stored: the name, type, location and size of a link or
local file. File contents stay where they are.`,
}

var docsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List documents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		docs := internal.Docs(a.store)
		if docsReferenceOnly {
			docs = internal.ReferencePDFs(a.store)
		}
		out := cmd.OutOrStdout()
		if len(docs) == 0 {
			fmt.Fprintln(out, headerStyle.Render("📚 "+internal.T(a.lang).NoResults))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📚 %d document(s)", len(docs))))
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Size")+"\t"+titleStyle.Render("Ref")+"\t")
		for _, d := range docs {
			size := "—"
			if d.Size > 0 {
				size = humanize.Bytes(uint64(d.Size))
			}
			ref := ""
			if d.IsReference() {
				ref = "✓"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", idStyle.Render(shortID(d.ID)), d.Name, d.Kind, size, ref)
		}
		return w.Flush()
	},
}

var docsAddCmd = &cobra.Command{
	Use:   "add <path-or-url>",
	Short: "Add a link or local file to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := internal.NewDocItem(args[0], docsName, !docsNotReference)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		doc = internal.AddDoc(a.store, doc)
		fmt.Fprintln(cmd.OutOrStdout(), doc.ID)
		return nil
	},
}

var docsRemoveCmd = &cobra.Command{
	Use:     "remove <doc-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a document from the library",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := args[0]
		for _, d := range internal.Docs(a.store) {
			if len(id) >= 4 && len(d.ID) > len(id) && d.ID[:len(id)] == id {
				id = d.ID
				break
			}
		}
		if err := internal.RemoveDoc(a.store, id); err != nil {
			return err
		}
		internal.PrintSuccess("Document removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd, docsAddCmd, docsRemoveCmd)
	docsListCmd.Flags().BoolVar(&docsReferenceOnly, "reference", false, "Only list PDFs marked as reference material")
	docsAddCmd.Flags().StringVar(&docsName, "name", "", "Display name (default: file name or URL)")
	docsAddCmd.Flags().BoolVar(&docsNotReference, "no-reference", false, "Keep the document out of the reference set")
}
