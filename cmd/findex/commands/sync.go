package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprint-team6/findex/internal/contracts"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "지수 데이터 연동 실행",
	Long: `외부 소스에서 지수 데이터를 가져와 저장합니다.

이 명령어는:
- --index-id 지정 시 해당 지수만 연동
- 미지정 시 연동이 켜진 모든 지수를 각자의 워터마크부터 연동

Example:
  go run ./cmd/findex sync
  go run ./cmd/findex sync --index-id 1 --from 2024-01-01 --to 2024-03-31`,
	RunE: runSync,
}

var (
	syncIndexID int64
	syncFrom    string
	syncTo      string
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Int64Var(&syncIndexID, "index-id", 0, "연동할 지수 ID (0: 전체)")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "시작일 (yyyy-MM-dd, 기본값: 1개월 전)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "종료일 (yyyy-MM-dd, 기본값: 오늘)")
}

func runSync(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Findex Data Sync ===")

	application, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Close()

	ctx := context.Background()

	if syncIndexID == 0 {
		results, err := application.integration.SyncAll(ctx)
		for _, r := range results {
			fmt.Printf("✅ index %d: %d rows (%s)\n", r.IndexID, r.Count, r.Source)
		}
		if err != nil {
			return fmt.Errorf("❌ sync failed: %w", err)
		}
		fmt.Printf("\n✅ Synced %d indices\n", len(results))
		return nil
	}

	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if syncFrom != "" {
		from, err = time.Parse(contracts.DateLayout, syncFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}
	if syncTo != "" {
		to, err = time.Parse(contracts.DateLayout, syncTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}

	result, err := application.integration.SyncIndex(ctx, syncIndexID, from, to)
	if err != nil {
		return fmt.Errorf("❌ sync failed: %w", err)
	}

	fmt.Printf("✅ index %d: %d rows (%s, %s ~ %s)\n",
		result.IndexID, result.Count, result.Source,
		result.From.Format(contracts.DateLayout), result.To.Format(contracts.DateLayout))
	return nil
}
