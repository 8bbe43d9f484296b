package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/config"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/logger"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/provider"
	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/scanner"
	"go.uber.org/ratelimit"
)

type BasicTokenInfo struct {
	Address  string `json:"contract_address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type summary struct {
	Total    int
	Passed   int
	Featured int
	Failed   int
}

func main() {
	tokensFile := flag.String("tokens", "tokens.json", "JSON list of tokens to screen")
	rps := flag.Int("rps", 1, "tokens screened per second")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(logger.Options{Level: "warn", Dir: cfg.LogDir})
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	defer log.Sync()

	tokenInfos, err := readTokens(*tokensFile)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}

	p, err := provider.FromConfig(cfg, nil, log)
	if err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
	svc := scanner.NewService(p, nil, nil, log)

	limiter := ratelimit.NewUnlimited()
	if *rps > 0 {
		limiter = ratelimit.New(*rps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	screen(ctx, svc, tokenInfos, limiter, cfg.FeaturedMaxScore, os.Stdout)
}

func screen(ctx context.Context, svc *scanner.Service, tokenInfos []BasicTokenInfo, limiter ratelimit.Limiter, featuredMaxScore int, out io.Writer) summary {
	fmt.Fprintf(out, "Token Screening Pipeline\n")
	fmt.Fprintf(out, "Total: %d tokens\n\n", len(tokenInfos))

	sum := summary{Total: len(tokenInfos)}

	for i, tokenInfo := range tokenInfos {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "Interrupted after %d tokens\n\n", i)
			break
		}
		limiter.Take()

		fmt.Fprintf(out, "[%d/%d] %s (%s)\n", i+1, len(tokenInfos), tokenInfo.Symbol, tokenInfo.Address)

		if err := models.ValidateMintAddress(tokenInfo.Address); err != nil {
			sum.Failed++
			fmt.Fprintf(out, "  ERROR: %v\n\n", err)
			continue
		}

		result, _, err := svc.Scan(ctx, tokenInfo.Address)
		if err != nil {
			sum.Failed++
			fmt.Fprintf(out, "  ERROR: %v\n\n", err)
			continue
		}

		km := result.KeyMetrics
		fmt.Fprintf(out, "  Age: %s | Liq: %s | MCap: %s | Holders: %s | Top10: %s\n",
			km.Age, km.Liquidity, km.MarketCap, km.Holders, km.Top10Percentage)
		fmt.Fprintf(out, "  Score: %d/10 | Confidence: %d%% | Flags R:%d Y:%d G:%d\n",
			result.DegenScore,
			result.Confidence,
			len(result.RedFlags),
			len(result.YellowFlags),
			len(result.GreenFlags),
		)

		if passes(result.Verdict) {
			sum.Passed++
			status := "VISIBLE"
			if result.DegenScore <= featuredMaxScore {
				status = "FEATURED"
				sum.Featured++
			}
			fmt.Fprintf(out, "  Result: %s - %s\n\n", result.Verdict, status)
		} else {
			reason := "no red flags"
			if len(result.RedFlags) > 0 {
				reason = result.RedFlags[0]
			} else if len(result.MissingData) > 0 {
				reason = fmt.Sprintf("missing %d fields", len(result.MissingData))
			}
			fmt.Fprintf(out, "  Result: %s - %s\n\n", result.Verdict, reason)
		}
	}

	passRate := 0.0
	if sum.Total > 0 {
		passRate = float64(sum.Passed) / float64(sum.Total) * 100
	}
	fmt.Fprintf(out, "Summary: %d/%d passed (%.1f%%), %d featured, %d errors\n",
		sum.Passed, sum.Total, passRate, sum.Featured, sum.Failed)

	return sum
}

func passes(v models.Verdict) bool {
	return v == models.VerdictSafe || v == models.VerdictBased
}

func readTokens(fileName string) ([]BasicTokenInfo, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}

	var tokens []BasicTokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return tokens, nil
}
