package cli

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/malbeclabs/tokenmeta/pkg/explorer"
	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

type InspectCmd struct{}

func NewInspectCmd() *InspectCmd {
	return &InspectCmd{}
}

func (c *InspectCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Fetch and print the metadata account for a mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getGlobalOptions(cmd)
			if err != nil {
				return err
			}
			mint, err := getPublicKeyFlag(cmd, "mint")
			if err != nil {
				return err
			}
			if mint.IsZero() {
				return fmt.Errorf("mint is required")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := tokenmetadata.New(opts.newLedger(), opts.network.TokenMetadataProgramID, "")
			m, err := client.GetMetadata(ctx, mint)
			if errors.Is(err, tokenmetadata.ErrMetadataNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "no metadata for mint %s\n", mint)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get metadata: %w", err)
			}

			link, err := explorer.BuildLink(explorer.KindAddress, m.PubKey.String(), opts.network.Moniker, customRPCURL(opts.network))
			if err != nil {
				return fmt.Errorf("failed to build explorer link: %w", err)
			}
			renderMetadata(cmd.OutOrStdout(), m, link)
			return nil
		},
	}

	cmd.Flags().String("mint", "", "Mint address (required)")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func renderMetadata(w io.Writer, m *tokenmetadata.Metadata, link string) {
	updateAuthority := m.UpdateAuthority.String()
	if !m.HasUpdateAuthority() {
		updateAuthority = "none"
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Address", m.PubKey.String()})
	table.Append([]string{"Mint", m.Mint.String()})
	table.Append([]string{"Name", m.Name})
	table.Append([]string{"Symbol", m.Symbol})
	table.Append([]string{"URI", m.URI})
	table.Append([]string{"Update Authority", updateAuthority})
	table.Append([]string{"Mutable", strconv.FormatBool(m.IsMutable)})
	table.Append([]string{"Seller Fee (bps)", strconv.Itoa(int(m.SellerFeeBasisPoints))})
	table.Append([]string{"Creators", strconv.Itoa(len(m.Creators))})
	table.Append([]string{"Explorer", link})
	table.Render()
}
