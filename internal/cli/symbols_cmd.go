// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/market"
)

// HandleSymbolsCommand lists the tickers the backend can forecast. Falls
// back to the built-in catalog when the backend is unreachable, since both
// are generated from the same dataset.
func HandleSymbolsCommand(args Args) error {
	cfg := loadConfigOrDefault()
	client := newAPIClient(cfg, args.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.TimeoutSecs)*time.Second)
	defer cancel()

	source := "backend"
	symbols, err := client.Symbols(ctx)
	if err != nil {
		if !api.IsBackendDown(err) && !api.IsTransportError(err) && !api.IsTimeout(err) {
			if args.JSON {
				NewJSONErrorResponse("symbols", err).Print()
			}
			return err
		}
		source = "builtin"
		symbols = market.SymbolList()
		if !args.JSON && !args.Quiet {
			fmt.Fprintln(os.Stderr, DimStyle.Render("Backend unreachable, showing the built-in catalog."))
		}
	}

	infos := make([]SymbolInfo, 0, len(symbols))
	for _, sym := range symbols {
		infos = append(infos, SymbolInfo{Symbol: sym, Company: market.CompanyName(sym)})
	}

	if args.JSON {
		return NewJSONResponse("symbols", SymbolsData{
			Source:  source,
			Count:   len(infos),
			Symbols: infos,
		}).Print()
	}

	fmt.Println(TitleStyle.Render("Available symbols"))
	for _, info := range infos {
		if info.Company != "" && info.Company != info.Symbol {
			fmt.Printf("  %s %s\n", RenderLabel(info.Symbol, 8), ValueStyle.Render(info.Company))
		} else {
			fmt.Printf("  %s\n", ValueStyle.Render(info.Symbol))
		}
	}
	if !args.Quiet {
		fmt.Println(DimStyle.Render(fmt.Sprintf("(%d symbols, source: %s)", len(infos), source)))
	}
	return nil
}
