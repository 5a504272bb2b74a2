package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bitfsorg/libgamma-go/admin"
)

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success writes data as a JSON envelope, or calls text for text output.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// writeResult renders one config as aligned key/value lines.
func writeResult(w io.Writer, r *admin.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	c := r.Config
	fmt.Fprintf(tw, "address\t%s\n", r.Address)
	fmt.Fprintf(tw, "index\t%d\n", c.Index)
	fmt.Fprintf(tw, "bump\t%d\n", c.Bump)
	fmt.Fprintf(tw, "disable_create_pool\t%t\n", c.DisableCreatePool)
	fmt.Fprintf(tw, "trade_fee_rate\t%d\n", c.TradeFeeRate)
	fmt.Fprintf(tw, "protocol_fee_rate\t%d\n", c.ProtocolFeeRate)
	fmt.Fprintf(tw, "fund_fee_rate\t%d\n", c.FundFeeRate)
	fmt.Fprintf(tw, "create_pool_fee\t%d\n", c.CreatePoolFee)
	fmt.Fprintf(tw, "protocol_owner\t%s\n", c.ProtocolOwner)
	fmt.Fprintf(tw, "fund_owner\t%s\n", c.FundOwner)
	fmt.Fprintf(tw, "referral_project\t%s\n", c.ReferralProject)
	fmt.Fprintf(tw, "max_open_time\t%d\n", c.MaxOpenTime)
	tw.Flush()
}

func writeResults(w io.Writer, rs []*admin.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tADDRESS\tTRADE\tPROTOCOL\tFUND\tCREATE_POOL_FEE\tDISABLED")
	for _, r := range rs {
		c := r.Config
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%t\n",
			c.Index, r.Address, c.TradeFeeRate, c.ProtocolFeeRate, c.FundFeeRate, c.CreatePoolFee, c.DisableCreatePool)
	}
	tw.Flush()
}
