package main

import (
	"github.com/spf13/cobra"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/bot"
)

func newRootCmd(clientOpts []crawlbase.Option) *cobra.Command {
	a := &app{clientOpts: clientOpts}

	root := &cobra.Command{
		Use:                "crawlbase",
		Short:              "Fetch pages, structured data, screenshots and leads through Crawlbase",
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "./configs", "directory holding config.yaml")
	root.PersistentFlags().BoolVar(&a.noHistory, "no-history", false, "do not open the history database")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print the whole result as JSON")

	root.AddCommand(
		newCrawlCmd(a),
		newScrapeCmd(a),
		newScreenshotCmd(a),
		newLeadsCmd(a),
		newHistoryCmd(a),
		newBotCmd(a),
	)
	return root
}

func newCrawlCmd(a *app) *cobra.Command {
	var (
		params     []string
		data       []string
		format     string
		javascript bool
	)
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Fetch a page through the Crawling API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			if format != "" {
				p = p.Set("format", format)
			}

			var res *crawlbase.Result
			if cmd.Flags().Changed("data") {
				d, err := parseParams(data)
				if err != nil {
					return err
				}
				res, err = a.svc.CrawlPost(cmd.Context(), cliUserID, args[0], d, p, javascript)
				if err != nil {
					return err
				}
			} else {
				res, err = a.svc.Crawl(cmd.Context(), cliUserID, args[0], p, javascript)
				if err != nil {
					return err
				}
			}
			return a.printResult(cmd, res)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "extra API parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "POST field as key=value (repeatable); switches to POST")
	cmd.Flags().StringVarP(&format, "format", "f", "", "response format: html or json")
	cmd.Flags().BoolVar(&javascript, "javascript", false, "use the JavaScript token")
	return cmd
}

func newScrapeCmd(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Fetch structured data through the Scraper API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			res, err := a.svc.Scrape(cmd.Context(), cliUserID, args[0], p)
			if err != nil {
				return err
			}
			return a.printResult(cmd, res)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "extra API parameter as key=value (repeatable)")
	return cmd
}

func newScreenshotCmd(a *app) *cobra.Command {
	var (
		params []string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "screenshot <url>",
		Short: "Capture a page through the Screenshots API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			if out != "" {
				p = p.Set("save_to_path", out)
			}
			res, err := a.svc.Screenshot(cmd.Context(), cliUserID, args[0], p)
			if err != nil {
				return err
			}
			return a.printResult(cmd, res)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "extra API parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "where to write the image (.jpg or .jpeg)")
	return cmd
}

func newLeadsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leads <domain>",
		Short: "Look up e-mail leads for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Leads(cmd.Context(), cliUserID, args[0])
			if err != nil {
				return err
			}
			return a.printResult(cmd, res)
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous calls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.svc.History(cmd.Context(), cliUserID)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			renderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "forget <variant> <target>",
		Short: "Remove one call from the history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Forget(cmd.Context(), cliUserID, args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Forgot %s %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the APIs over Telegram until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := bot.NewHandler(a.cfg, a.svc, a.log)
			if err != nil {
				return err
			}
			a.log.Info("Bot is running. Press Ctrl+C to stop.")
			h.Start(cmd.Context())
			a.log.Info("Bot stopped")
			return nil
		},
	}
}
