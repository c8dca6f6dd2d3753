// cmd/browser/commands.go
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github-commit-browser/internal/model"
)

func reposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos <username>",
		Short: "List a user's repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.newStore()
			if err != nil {
				return err
			}

			st.FetchRepos(cmd.Context(), args[0])
			if msg := st.ErrorMessage(); msg != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			}
			return printRepos(cmd.OutOrStdout(), st.Repos())
		},
	}
}

func commitsCmd(a *app) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "commits <owner/repo>",
		Short: "List the latest commits of a repository, ten per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepoIdentifier(args[0])
			if err != nil {
				return err
			}
			if pages < 1 {
				return fmt.Errorf("--pages must be 1 or greater, got %d", pages)
			}

			st, err := a.newStore()
			if err != nil {
				return err
			}
			for page := 1; page <= pages; page++ {
				before := len(st.Commits())
				if err := st.FetchCommits(cmd.Context(), owner, name, page); err != nil {
					return fmt.Errorf("failed to fetch commits page %d: %w", page, err)
				}
				if len(st.Commits()) == before {
					break
				}
			}
			return printCommits(cmd.OutOrStdout(), st.Commits())
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")

	return cmd
}

func showCmd(a *app) *cobra.Command {
	var withPatch bool

	cmd := &cobra.Command{
		Use:   "show <owner/repo> <sha>",
		Short: "Show the stats and changed files of a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := parseRepoIdentifier(args[0])
			if err != nil {
				return err
			}

			st, err := a.newStore()
			if err != nil {
				return err
			}
			if err := st.FetchCommitDetails(cmd.Context(), owner, name, args[1]); err != nil {
				return fmt.Errorf("failed to fetch commit %s: %w", args[1], err)
			}
			return printCommitDetail(cmd.OutOrStdout(), st.CommitDetails(), withPatch)
		},
	}
	cmd.Flags().BoolVar(&withPatch, "patch", false, "print file patches")

	return cmd
}

func printRepos(w io.Writer, repos []model.Repository) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, r := range repos {
		desc := ""
		if r.Description != nil {
			desc = *r.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Name, desc)
	}
	return tw.Flush()
}

func printCommits(w io.Writer, commits []model.Commit) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SHA\tAUTHOR\tDATE\tMESSAGE")
	for _, c := range commits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortSHA(c.SHA), c.Commit.Author.Name, c.Commit.Author.Date, firstLine(c.Commit.Message))
	}
	return tw.Flush()
}

func printCommitDetail(w io.Writer, d *model.CommitDetail, withPatch bool) error {
	fmt.Fprintf(w, "commit %s\n", d.SHA)
	fmt.Fprintf(w, "%d changes: +%d -%d\n\n", d.Stats.Total, d.Stats.Additions, d.Stats.Deletions)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range d.Files {
		fmt.Fprintf(tw, "%s\t+%d\t-%d\n", f.Filename, f.Additions, f.Deletions)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if withPatch {
		for _, f := range d.Files {
			if f.Patch == nil {
				continue
			}
			fmt.Fprintf(w, "\n--- %s\n%s\n", f.Filename, *f.Patch)
		}
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
