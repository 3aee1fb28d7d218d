package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"feeguard-backend/internal/config"
	"feeguard-backend/internal/registry"
	gascontextService "feeguard-backend/internal/service/gascontext"
	inspectorService "feeguard-backend/internal/service/inspector"
	"feeguard-backend/internal/types"
	"feeguard-backend/pkg/blockchain"
	"feeguard-backend/pkg/logger"
)

// 退出码约定：
//
//	0 手续费在阈值内
//	1 输入非法或RPC连接失败
//	2 链上查无此交易
//	3 手续费超过阈值
func main() {
	os.Exit(run())
}

func run() int {
	var (
		rpcURL         = flag.String("rpc", os.Getenv("RPC_URL"), "Ethereum-compatible HTTP RPC endpoint (falls back to RPC_URL env)")
		thresholdEth   = flag.Float64("warn-fee-eth", 0.05, "Warn if total fee exceeds this value in ETH")
		timeout        = flag.Duration("timeout", 15*time.Second, "RPC request timeout")
		jsonOut        = flag.Bool("json", false, "Print JSON instead of human-readable report")
		withContext    = flag.Bool("context", false, "Profile the tx gas price against recent network conditions instead of the fixed threshold")
		ctxBlocks      = flag.Int("blocks", 300, "How many recent blocks to sample in context mode")
		ctxStep        = flag.Int("step", 3, "Sample every Nth block in context mode")
		warnMultMedian = flag.Float64("warn-mult-median", 2.0, "Context mode: warn if tx gas price > median * this multiplier")
		warnMultP95    = flag.Float64("warn-mult-p95", 1.2, "Context mode: warn if tx gas price > p95 * this multiplier")
	)
	flag.Parse()

	// CLI模式下结构化日志只输出错误，保持报告输出干净
	logger.Init(&logger.Config{Level: "error", Format: "console"})

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: feeguard [flags] <tx_hash>")
		flag.PrintDefaults()
		return types.ExitInvalidInput
	}
	if *rpcURL == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --rpc is required (or set RPC_URL)")
		return types.ExitInvalidInput
	}
	if *thresholdEth < 0 {
		fmt.Fprintln(os.Stderr, "ERROR: --warn-fee-eth must be non-negative")
		return types.ExitInvalidInput
	}
	if *ctxBlocks <= 0 || *ctxStep <= 0 {
		fmt.Fprintln(os.Stderr, "ERROR: --blocks and --step must be positive")
		return types.ExitInvalidInput
	}

	rawHash := flag.Arg(0)

	chainClient, err := blockchain.NewChainClient(&config.RPCConfig{
		Endpoint:       *rpcURL,
		RequestTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to connect to RPC endpoint: %v\n", err)
		return types.ExitInvalidInput
	}
	defer chainClient.Close()

	chainRegistry := registry.New(nil)
	ctx := context.Background()

	if *withContext {
		contextSvc := gascontextService.NewService(&config.ContextConfig{
			Blocks:         *ctxBlocks,
			Step:           *ctxStep,
			MaxBlocks:      10000,
			WarnMultMedian: *warnMultMedian,
			WarnMultP95:    *warnMultP95,
		}, chainClient, chainRegistry)

		report, err := contextSvc.Profile(ctx, rawHash)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return types.ExitCodeForError(err)
		}
		if *jsonOut {
			return printJSON(report, report.ExitCode())
		}
		printContextReport(report)
		return report.ExitCode()
	}

	inspectorSvc := inspectorService.NewService(&config.GuardConfig{
		FeeThresholdEth: *thresholdEth,
	}, chainClient, chainRegistry, nil, nil)

	report, err := inspectorSvc.Inspect(ctx, rawHash, *thresholdEth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return types.ExitCodeForError(err)
	}
	if *jsonOut {
		return printJSON(report, report.ExitCode())
	}
	printReport(report)
	return report.ExitCode()
}

func printJSON(v interface{}, exitCode int) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return types.ExitInvalidInput
	}
	fmt.Println(string(data))
	return exitCode
}

func printReport(r *types.TxInspectionReport) {
	switch r.Status {
	case types.TxStatusNotFound:
		fmt.Printf("Transaction not found on %s: %s\n", r.NetworkLabel, r.TxHash)
		return
	case types.TxStatusPending:
		fmt.Printf("Transaction is pending on %s: %s\n", r.NetworkLabel, r.TxHash)
		if r.FromAddr != nil {
			fmt.Printf("From: %s\n", *r.FromAddr)
		}
		if r.ToAddr != nil {
			fmt.Printf("To:   %s\n", *r.ToAddr)
		}
		if r.Error != nil {
			fmt.Printf("Note: %s\n", *r.Error)
		}
		fmt.Printf("Elapsed: %.2fs\n", r.ElapsedSeconds)
		return
	}

	fmt.Println("feeguard transaction report")
	fmt.Printf("Network      : %s\n", r.NetworkLabel)
	if r.ChainID != nil {
		fmt.Printf("Chain ID     : %d\n", *r.ChainID)
	}
	fmt.Printf("Tx Hash      : %s\n", r.TxHash)
	if r.FromAddr != nil {
		fmt.Printf("From         : %s\n", *r.FromAddr)
	}
	if r.ToAddr != nil {
		fmt.Printf("To           : %s\n", *r.ToAddr)
	} else {
		fmt.Printf("To           : (contract creation)\n")
	}
	fmt.Printf("Status       : %s\n", r.Status)
	if r.BlockNumber != nil {
		fmt.Printf("Block        : %d\n", *r.BlockNumber)
	}
	if r.TimestampUTC != nil {
		fmt.Printf("Timestamp    : %s\n", *r.TimestampUTC)
	}
	if r.Confirmations != nil {
		fmt.Printf("Confirmations: %d\n", *r.Confirmations)
	}

	fmt.Println("")
	fmt.Println("Gas / Fee")
	if r.GasUsed != nil {
		fmt.Printf("  Gas used        : %d\n", *r.GasUsed)
	}
	if r.GasPriceWei != nil {
		fmt.Printf("  Gas price (gwei): %.2f\n", inspectorService.WeiToGwei(r.GasPriceWei))
	}
	if r.TotalFeeEth != nil {
		fmt.Printf("  Total fee (ETH) : %.6f\n", *r.TotalFeeEth)
		fmt.Printf("  Threshold (ETH) : %.6f\n", r.FeeThresholdEth)
		if r.HighFee {
			fmt.Println("  Fee risk        : high (exceeds threshold)")
		} else {
			fmt.Println("  Fee risk        : within threshold")
		}
	}

	fmt.Println("")
	fmt.Printf("Elapsed      : %.2fs\n", r.ElapsedSeconds)
}

func printContextReport(r *types.GasContextReport) {
	fmt.Printf("%s", r.NetworkLabel)
	if r.ChainID != nil {
		fmt.Printf(" (chainId %d)", *r.ChainID)
	}
	fmt.Printf("  tx=%s", r.TxHash)
	if r.TxBlockNumber != nil {
		fmt.Printf("  block=%d", *r.TxBlockNumber)
	}
	fmt.Println("")
	fmt.Printf("Tx gasPrice: %.3f gwei (ctx median=%.3f gwei, p95=%.3f gwei)\n",
		r.TxGasPriceGwei, r.GasPriceGwei.P50, r.GasPriceGwei.P95)
	fmt.Printf("Context window: %d sampled blocks ending at head=%d\n",
		r.SampledBlocks, r.ContextHead)
	fmt.Printf("Multipliers: median x%.1f, p95 x%.1f\n", r.WarnMultMedian, r.WarnMultP95)
	fmt.Printf("Classification: %s\n", r.Classification)
	fmt.Printf("Elapsed: %.2fs\n", r.ElapsedSeconds)
}
