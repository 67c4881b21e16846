package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/money"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cashflow-cli",
		Short:         "Cash flow book-keeping CLI",
		Long:          `A command line interface for the cash flow API and VND amount tools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the cash flow API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CASHFLOW_TOKEN"), "Bearer token (defaults to $CASHFLOW_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(amountCmd(), dashboardCmd(), transactionsCmd(), backupCmd())
	return rootCmd
}

// Amount tools run locally.

func amountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amount",
		Short: "Parse and render VND amounts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "parse <text>",
			Short: "Parse shorthand such as 5.5tr or 2 tỷ into đồng",
			Args:  cobra.MinimumNArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), money.Parse(strings.Join(args, " ")))
			},
		},
		&cobra.Command{
			Use:   "format <text>",
			Short: "Format an amount with vi-VN grouping",
			Args:  cobra.MinimumNArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), money.FormatCurrency(money.Parse(strings.Join(args, " "))))
			},
		},
		&cobra.Command{
			Use:   "words <text>",
			Short: "Render an amount as Tỷ/Triệu/Nghìn text",
			Args:  cobra.MinimumNArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), money.ToVnText(money.Parse(strings.Join(args, " "))))
			},
		},
	)

	return cmd
}

func dashboardCmd() *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the plan-vs-actual dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/dashboard"
			if month != "" {
				path += "?month=" + month
			}

			var d dto.DashboardResponse
			if err := newClient().getJSON(cmd.Context(), path, &d); err != nil {
				return err
			}

			if asJSON {
				printJSON(cmd.OutOrStdout(), d)
				return nil
			}
			printDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func printDashboard(w io.Writer, d dto.DashboardResponse) {
	fmt.Fprintf(w, "Tháng %s\n", d.Month)
	fmt.Fprintf(w, "  Số dư đầu kỳ:   %s\n", d.Formatted.OpeningBalance)
	fmt.Fprintf(w, "  Số dư cuối kỳ:  %s\n", d.Formatted.ClosingBalance)
	fmt.Fprintf(w, "  Thu trong tháng: %s\n", d.Formatted.MonthIn)
	fmt.Fprintf(w, "  Chi trong tháng: %s\n", d.Formatted.MonthOut)
	fmt.Fprintf(w, "  Dòng tiền ròng:  %s\n", d.Formatted.MonthNet)
	if d.Reconciliation.Planned {
		fmt.Fprintf(w, "  Mục tiêu ròng:   %s\n", d.Formatted.NetGoal)
	}
	fmt.Fprintf(w, "  Hoàn thành:      %s\n", d.Achievement)
	fmt.Fprintf(w, "  Trạng thái:      %s\n", d.Status)
	fmt.Fprintf(w, "  Chi phí cố định: %d%%\n", d.FixedPercent)
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Download all transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().download(cmd.Context(), "/api/v1/transactions/export.csv", output, cmd.OutOrStdout())
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: server-suggested name)")

	var n int
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List the newest transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.TransactionListResponse
			if err := newClient().getJSON(cmd.Context(), "/api/v1/transactions/recent?n="+strconv.Itoa(n), &list); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tx := range list.Transactions {
				fmt.Fprintf(out, "%-12s %s  %-15s %20s  %s\n",
					tx.ID, tx.Date, tx.TypeLabel, tx.AmountFormatted, truncate(tx.Counterparty, 30))
			}
			return nil
		},
	}
	recentCmd.Flags().IntVarP(&n, "number", "n", 5, "Number of transactions")

	cmd.AddCommand(exportCmd, recentCmd)
	return cmd
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Full data set backup and restore",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download a JSON backup of all data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().download(cmd.Context(), "/api/v1/state/backup", output, cmd.OutOrStdout())
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: server-suggested name)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore collections from a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var resp dto.ImportResponse
			if err := newClient().postJSON(cmd.Context(), "/api/v1/state/import", f, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported: %s\n", strings.Join(resp.Imported, ", "))
			return nil
		},
	}

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

// client talks to the cash flow API.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient() *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var e dto.ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		if e.Message != "" {
			return fmt.Errorf("%s (status %d): %s", e.Error, resp.StatusCode, e.Message)
		}
		return fmt.Errorf("%s (status %d)", e.Error, resp.StatusCode)
	}
	return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

func (c *client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *client) postJSON(ctx context.Context, path string, body io.Reader, v any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// download saves an attachment to output, the server-suggested file name
// when output is empty, or stdout when output is "-".
func (c *client) download(ctx context.Context, path, output string, stdout io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if output == "-" {
		_, err := io.Copy(stdout, resp.Body)
		return err
	}

	if output == "" {
		output = attachmentName(resp.Header.Get("Content-Disposition"))
		if output == "" {
			return errors.New("server did not suggest a file name; pass --output")
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved %s (%d bytes)\n", output, n)
	return nil
}

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}
