package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "findex",
	Short: "Findex - 지수 관측 서비스",
	Long: `Findex Unified CLI

금융 지수 데이터를 수집/조회/분석하는 백엔드 서비스.
일별 지수 관측치 저장, 커서 페이지네이션 조회, 기간 성과/랭킹,
이동평균 차트, CSV 내보내기를 제공합니다.

Usage:
  go run ./cmd/findex [command]

Examples:
  go run ./cmd/findex api
  go run ./cmd/findex sync --index-id 1
  go run ./cmd/findex export --index-id 1 --out kospi.csv
  go run ./cmd/findex test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
