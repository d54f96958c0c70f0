package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/internal/indexdata"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "지수 데이터 CSV 내보내기",
	Long: `지수 데이터를 CSV 파일로 내보냅니다.

Example:
  go run ./cmd/findex export --index-id 1 --out kospi.csv
  go run ./cmd/findex export --index-id 1 --from 2023-01-01 --to 2023-12-31 --sort baseDate --dir asc`,
	RunE: runExport,
}

var (
	exportIndexID int64
	exportOut     string
	exportFrom    string
	exportTo      string
	exportSort    string
	exportDir     string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64Var(&exportIndexID, "index-id", 0, "내보낼 지수 ID (필수)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "출력 파일 경로 (기본값: stdout)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "시작일 (yyyy-MM-dd, 기본값: 1년 전)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "종료일 (yyyy-MM-dd, 기본값: 오늘)")
	exportCmd.Flags().StringVar(&exportSort, "sort", "baseDate", "정렬 필드 (baseDate|closingPrice)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "desc", "정렬 방향 (asc|desc)")
	_ = exportCmd.MarkFlagRequired("index-id")
}

func runExport(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Close()

	params := indexdata.ExportParams{
		IndexID:   exportIndexID,
		SortField: contracts.SortField(exportSort),
		Direction: contracts.ParseSortDirection(exportDir),
	}
	if exportFrom != "" {
		t, err := time.Parse(contracts.DateLayout, exportFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		params.From = &t
	}
	if exportTo != "" {
		t, err := time.Parse(contracts.DateLayout, exportTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		params.To = &t
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := application.indexData.ExportCSV(context.Background(), out, params); err != nil {
		return fmt.Errorf("❌ export failed: %w", err)
	}

	if exportOut != "" {
		fmt.Printf("✅ Exported to %s\n", exportOut)
	}
	return nil
}
