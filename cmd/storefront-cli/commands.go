package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/usecases"
)

type marketLister interface {
	ListListings(ctx context.Context, query usecases.ListingQuery) entities.ScanResult[entities.Listing]
}

type collectionLister interface {
	ListOwned(ctx context.Context, account, search string) (entities.ScanResult[entities.Token], error)
}

type metadataResolver interface {
	Resolve(ctx context.Context, tokenID, uri string) entities.Metadata
}

type views struct {
	market     marketLister
	collection collectionLister
	metadata   metadataResolver
	// chainErr is set when the node is unreachable; only metadata works then
	chainErr error
}

type viewBuilder func(ctx context.Context) (*views, error)

func newRootCmd(build viewBuilder) *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal views over the NFT storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text|json")

	load := func(cmd *cobra.Command) (*views, error) {
		if output != "text" && output != "json" {
			return nil, fmt.Errorf("unknown output format %q", output)
		}
		return build(cmd.Context())
	}

	root.AddCommand(newMarketCmd(load, &output))
	root.AddCommand(newCollectionCmd(load, &output))
	root.AddCommand(newMetadataCmd(load, &output))
	return root
}

func newMarketCmd(load func(*cobra.Command) (*views, error), output *string) *cobra.Command {
	var search, sort string
	cmd := &cobra.Command{
		Use:   "market",
		Short: "List active marketplace listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(cmd)
			if err != nil {
				return err
			}
			if v.chainErr != nil {
				return v.chainErr
			}
			result := v.market.ListListings(cmd.Context(), usecases.ListingQuery{
				Search: search,
				Sort:   usecases.ListingSort(sort),
			})
			if *output == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			if !writeScanStatus(out, result.Status, result.FailureKind, "No NFTs listed for sale") {
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LISTING\tTOKEN\tNAME\tPRICE\tSELLER")
			for _, l := range result.Items {
				fmt.Fprintf(w, "%s\t#%s\t%s\t%s ETH\t%s\n", l.ID, l.TokenID, l.Metadata.Name, l.Price, l.Seller)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by token id substring")
	cmd.Flags().StringVar(&sort, "sort", string(usecases.SortPriceLow), "price-low|price-high|newest")
	return cmd
}

func newCollectionCmd(load func(*cobra.Command) (*views, error), output *string) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "collection <address>",
		Short: "List tokens owned by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(cmd)
			if err != nil {
				return err
			}
			if v.chainErr != nil {
				return v.chainErr
			}
			result, err := v.collection.ListOwned(cmd.Context(), args[0], search)
			if err != nil {
				return err
			}
			if *output == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			if !writeScanStatus(out, result.Status, result.FailureKind, "You don't own any NFTs yet") {
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tNAME\tIMAGE")
			for _, t := range result.Items {
				fmt.Fprintf(w, "#%s\t%s\t%s\n", t.TokenID, t.Metadata.Name, displayImage(t.Metadata))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by token id substring")
	return cmd
}

func newMetadataCmd(load func(*cobra.Command) (*views, error), output *string) *cobra.Command {
	var tokenID string
	cmd := &cobra.Command{
		Use:   "metadata <uri>",
		Short: "Resolve a token URI through the gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(cmd)
			if err != nil {
				return err
			}
			md := v.metadata.Resolve(cmd.Context(), tokenID, args[0])
			if *output == "json" {
				return writeJSON(cmd.OutOrStdout(), md)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", md.Name)
			fmt.Fprintf(w, "Description:\t%s\n", md.Description)
			fmt.Fprintf(w, "Image:\t%s\n", md.Image)
			if md.ImageURL != "" && md.ImageURL != md.Image {
				fmt.Fprintf(w, "Gateway:\t%s\n", md.ImageURL)
			}
			fmt.Fprintf(w, "Source:\t%s\n", md.Source)
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tokenID, "token-id", "", "token id used in placeholder names")
	return cmd
}

// writeScanStatus prints the empty or degraded notice and reports whether
// there are rows to render.
func writeScanStatus(w io.Writer, status entities.ScanStatus, kind entities.FailureKind, emptyMsg string) bool {
	switch status {
	case entities.ScanStatusFailed:
		fmt.Fprintf(w, "%s (scan failed: %s)\n", emptyMsg, kind)
		return false
	case entities.ScanStatusEmpty:
		fmt.Fprintln(w, emptyMsg)
		return false
	}
	return true
}

// displayImage prefers the gateway form, which a terminal link can open.
func displayImage(md entities.Metadata) string {
	if md.ImageURL != "" {
		return md.ImageURL
	}
	return md.Image
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
