package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

const reportTimeLayout = "2006-01-02 15:04"

// ReportUseCase 库存CSV报表
type ReportUseCase struct {
	repo inventory.Repository
	now  func() time.Time
}

func NewReportUseCase(repo inventory.Repository) *ReportUseCase {
	return &ReportUseCase{repo: repo, now: time.Now}
}

// Filename 下载文件名，如inventory_report_20240105_0930.csv
func (uc *ReportUseCase) Filename() string {
	return fmt.Sprintf("inventory_report_%s.csv", uc.now().Format("20060102_1504"))
}

// Generate 写出报表：标题、生成时间、商品明细、汇总
func (uc *ReportUseCase) Generate(ctx context.Context, out io.Writer) error {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	rows := [][]string{
		{"库存报表 - Café Aroma"},
		{"生成时间", uc.now().Format(reportTimeLayout)},
		{},
		{"SKU", "名称", "类型", "当前库存(kg)", "最低库存(kg)", "状态"},
	}

	lowStock := 0
	total := decimal.Zero
	for _, item := range items {
		status := "正常"
		if item.NeedsRestock() {
			status = "库存不足"
			lowStock++
		}
		total = total.Add(item.StockKg)
		rows = append(rows, []string{
			item.SKU,
			item.Name,
			item.GrainType.DisplayName(),
			item.StockKg.StringFixed(3),
			item.MinStockKg.StringFixed(3),
			status,
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"商品数", fmt.Sprint(len(items))},
		[]string{"需要补货", fmt.Sprint(lowStock)},
		[]string{"总库存(kg)", total.StringFixed(3)},
	)

	if err := w.WriteAll(rows); err != nil {
		return apperrors.Wrap(err, "生成库存报表失败")
	}
	return nil
}
