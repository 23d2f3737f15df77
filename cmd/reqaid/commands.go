package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samvad-hq/reqaid/internal/app"
	"github.com/samvad-hq/reqaid/pkg/httpclient"
	"github.com/spf13/cobra"
)

type runnerFunc func() (*app.Runner, error)

func newRequestCmd(open runnerFunc) *cobra.Command {
	var (
		params      []string
		headers     []string
		data        string
		showHeaders bool
	)

	cmd := &cobra.Command{
		Use:   "request <profile> <method> <endpoint>",
		Short: "Perform one request through a profile",
		Long: "Perform one request through a profile.\n\nMethods (upper or lower case): " +
			strings.Join(methodNames(), ", ") + ".",
		Example: `  reqaid request local GET /items --param limit=5
  reqaid request local post /items --data '{"name":"x"}' --header X-Trace=abc`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			call, err := buildCall(args, params, data, headers)
			if err != nil {
				return err
			}

			runner, err := open()
			if err != nil {
				return err
			}

			res, err := runner.Run(cmd.Context(), call)
			if err != nil {
				return fmt.Errorf("request: %w", err)
			}
			return writeResult(cmd.OutOrStdout(), res, showHeaders)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "per-request header key=value (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON object sent as the request body")
	cmd.Flags().BoolVarP(&showHeaders, "include", "i", false, "print response headers")
	return cmd
}

func newHistoryCmd(open runnerFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently issued requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := open()
			if err != nil {
				return err
			}
			entries, err := runner.History(limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AT\tPROFILE\tMETHOD\tURL\tSTATUS\tDURATION")
			for _, e := range entries {
				status := fmt.Sprint(e.StatusCode)
				if e.Error != "" {
					status = "error: " + e.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%dms\n",
					e.At.Local().Format(time.RFC3339), e.Profile, e.Method, e.URL, status, e.DurationMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries (0 for all)")
	return cmd
}

func newProfilesCmd(open runnerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := open()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBASE URL\tHEADERS\tAUTH")
			for _, p := range runner.Profiles() {
				s := p.Summary()
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", p.Name, p.BaseURL, strings.Join(s["headers"].([]string), ","), s["auth"])
			}
			return w.Flush()
		},
	}
}

func writeResult(out io.Writer, res *app.Result, showHeaders bool) error {
	if _, err := fmt.Fprintf(out, "%s %s (%dms)\n", res.Status, res.URL, res.Duration.Milliseconds()); err != nil {
		return err
	}
	if showHeaders {
		keys := make([]string, 0, len(res.Header))
		for k := range res.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range res.Header[k] {
				fmt.Fprintf(out, "%s: %s\n", k, v)
			}
		}
		fmt.Fprintln(out)
	}
	if len(res.Body) > 0 {
		if _, err := out.Write(res.Body); err != nil {
			return err
		}
		if res.Body[len(res.Body)-1] != '\n' {
			fmt.Fprintln(out)
		}
	}
	return nil
}

// buildCall turns positional args and flags into an app.Call.
func buildCall(args, params []string, data string, headers []string) (app.Call, error) {
	call := app.Call{
		Profile:  args[0],
		Method:   args[1],
		Endpoint: args[2],
	}

	var err error
	if call.Params, err = parseParams(params); err != nil {
		return app.Call{}, err
	}
	if call.Headers, err = parseHeaders(headers); err != nil {
		return app.Call{}, err
	}
	if call.Data, err = parseData(data); err != nil {
		return app.Call{}, err
	}
	return call, nil
}

func methodNames() []string {
	methods := httpclient.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return names
}
