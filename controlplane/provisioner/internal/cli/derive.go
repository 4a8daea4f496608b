package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malbeclabs/tokenmeta/pkg/explorer"
	tokenmetadata "github.com/malbeclabs/tokenmeta/sdk/tokenmetadata/go"
)

type DeriveCmd struct{}

func NewDeriveCmd() *DeriveCmd {
	return &DeriveCmd{}
}

func (c *DeriveCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the metadata account address for a mint without contacting the network",
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
			programID, err := getPublicKeyFlag(cmd, "program-id")
			if err != nil {
				return err
			}
			if programID.IsZero() {
				programID = opts.network.TokenMetadataProgramID
			}

			pda, bump, err := tokenmetadata.DeriveMetadataPDA(programID, mint)
			if err != nil {
				return fmt.Errorf("failed to derive metadata address: %w", err)
			}
			link, err := explorer.BuildLink(explorer.KindAddress, pda.String(), opts.network.Moniker, customRPCURL(opts.network))
			if err != nil {
				return fmt.Errorf("failed to build explorer link: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "metadata: %s\n", pda)
			fmt.Fprintf(out, "bump:     %d\n", bump)
			fmt.Fprintf(out, "explorer: %s\n", link)
			return nil
		},
	}

	cmd.Flags().String("mint", "", "Mint address (required)")
	cmd.Flags().String("program-id", "", "Token metadata program ID, defaults to "+tokenmetadata.ProgramID.String())
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}
