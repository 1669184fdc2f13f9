package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/probooks/reconciler/internal/config"
	"github.com/probooks/reconciler/internal/logger"
	"github.com/probooks/reconciler/internal/pdftext"
	"github.com/probooks/reconciler/internal/pipeline"
	"github.com/probooks/reconciler/internal/reconcile"
	"github.com/probooks/reconciler/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Debug)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest-statement":
		runIngestStatement(cfg, log)
	case "ingest-invoice":
		runIngestInvoice(cfg, log)
	case "transactions":
		runListTransactions(cfg, log)
	case "invoices":
		runListInvoices(cfg, log)
	case "reconcile":
		runReconcile(cfg, log)
	case "runs":
		runListRuns(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Bank / Invoice Reconciler CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest-statement  Parse a bank statement PDF and store its debit transactions")
	fmt.Println("  ingest-invoice    Parse an invoice file (PDF or image) and store it")
	fmt.Println("  transactions      List stored transactions")
	fmt.Println("  invoices          List stored invoices")
	fmt.Println("  reconcile         Match unmatched transactions against invoices")
	fmt.Println("  runs              List ingestion runs")
	fmt.Println("  help              Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func openStore(cfg *config.Config, log zerolog.Logger) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("Failed to open record store")
	}
	return st
}

func newContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	return logger.WithContext(ctx, log), cancel
}

func runIngestStatement(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest-statement", flag.ExitOnError)
	file := fs.String("file", "", "Path to the bank statement PDF")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read statement file")
	}

	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	svc := pipeline.NewService(st, pipeline.NewGeminiClient(cfg.GeminiModel), pdftext.New(), log)
	summary, err := svc.IngestBankStatement(ctx, data, filepath.Base(*file))
	if err != nil {
		log.Fatal().Err(err).Msg("Statement ingestion failed")
	}

	fmt.Printf("Inserted %d debit transactions (%d non-debit lines skipped, %d lines failed extraction)\n",
		summary.Inserted, summary.NotDebit, summary.ExtractFailed)
}

func runIngestInvoice(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest-invoice", flag.ExitOnError)
	file := fs.String("file", "", "Path to the invoice file (PDF, PNG or JPEG)")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read invoice file")
	}

	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	svc := pipeline.NewService(st, pipeline.NewGeminiClient(cfg.GeminiModel), pdftext.New(), log)
	inv, err := svc.IngestInvoice(ctx, data, filepath.Base(*file))
	if err != nil {
		log.Fatal().Err(err).Msg("Invoice ingestion failed")
	}

	fmt.Printf("Stored invoice %s from %s (total %s)\n", inv.InvoiceID, inv.BusinessName, inv.TotalAmount)
}

func runListTransactions(cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	txs, err := st.ListTransactions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}
	if len(txs) == 0 {
		fmt.Println("No transactions yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tAMOUNT\tSTATUS\tINVOICE")
	for _, tx := range txs {
		invoiceNumber := "-"
		if tx.InvoiceNumber != nil {
			invoiceNumber = *tx.InvoiceNumber
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Description, tx.Amount, tx.HasInvoice, invoiceNumber)
	}
	w.Flush()
}

func runListInvoices(cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	invs, err := st.ListInvoices(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list invoices")
	}
	if len(invs) == 0 {
		fmt.Println("No invoices yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINVOICE\tBUSINESS\tGSTIN\tTOTAL")
	for _, inv := range invs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.InvoiceID, inv.BusinessName, inv.GSTIN, inv.TotalAmount)
	}
	w.Flush()
}

func runReconcile(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	tolerance := fs.Float64("tolerance", cfg.Tolerance, "Maximum amount difference for a match")
	threshold := fs.Int("fuzzy-threshold", cfg.FuzzyThreshold, "Minimum 0-100 name similarity for a match")
	fs.Parse(os.Args[2:])

	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	engine := reconcile.NewEngine(st, nil, log)
	matched, err := engine.Run(ctx, reconcile.Options{
		Tolerance:      decimal.NewFromFloat(*tolerance),
		FuzzyThreshold: *threshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	fmt.Printf("Matched %d transactions.\n", matched)
}

func runListRuns(cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := newContext(log)
	defer cancel()

	st := openStore(cfg, log)
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list ingestion runs")
	}
	if len(runs) == 0 {
		fmt.Println("No ingestion runs yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tKIND\tFILE\tSTARTED\tSTATUS\tINSERTED\tERROR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			run.RunID, run.Kind, run.Filename,
			run.StartedAt.Format(time.RFC3339), run.Status, run.InsertedCount, run.ErrorMessage)
	}
	w.Flush()
}
