// Package analysis turns raw model output into structured analysis results
// and builds the Chinese-language prompts the model is asked with.
package analysis

import (
	"fmt"
	"strings"

	"StockSage/internal/domain/models"
)

const unknown = "未知"

// PromptInput collects everything a comprehensive analysis prompt embeds.
type PromptInput struct {
	Stock   *models.Stock
	Latest  *models.DailyBar
	History []models.PricePoint
}

// BuildPrompt renders the comprehensive analysis prompt. Missing
// fundamentals render as N/A rather than zero so the model does not treat
// absent data as a signal.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("请分析以下股票数据并提供投资建议：\n\n")
	b.WriteString("股票信息：\n")
	fmt.Fprintf(&b, "- 代码：%s\n", in.Stock.Ticker)
	fmt.Fprintf(&b, "- 名称：%s\n", orUnknown(in.Stock.Name))
	fmt.Fprintf(&b, "- 行业：%s\n", orUnknown(in.Stock.Industry))
	fmt.Fprintf(&b, "- 市场：%s\n\n", orUnknown(in.Stock.Market))

	b.WriteString("最新数据：\n")
	if in.Latest != nil {
		fmt.Fprintf(&b, "- 当前价格：%.2f\n", in.Latest.Close)
		fmt.Fprintf(&b, "- 市盈率：%s\n", numOrNA(in.Latest.PERatio))
		fmt.Fprintf(&b, "- 市净率：%s\n", numOrNA(in.Latest.PBRatio))
		fmt.Fprintf(&b, "- 市值：%s\n\n", numOrNA(in.Latest.MarketCap))
	} else {
		b.WriteString("- 当前价格：N/A\n- 市盈率：N/A\n- 市净率：N/A\n- 市值：N/A\n\n")
	}

	b.WriteString("近期价格走势：\n")
	for _, p := range in.History {
		fmt.Fprintf(&b, "%s: ¥%.2f (%s%%)\n", p.Date, p.Price, p.Change)
	}

	b.WriteString("\n请从以下角度进行分析：\n")
	b.WriteString("1. 技术分析（价格趋势、支撑阻力位）\n")
	b.WriteString("2. 基本面分析（估值水平、行业地位）\n")
	b.WriteString("3. 风险评估（波动性、市场风险）\n")
	b.WriteString("4. 投资建议（买入/持有/卖出，目标价位）\n\n")
	b.WriteString("请用中文回答，保持专业且易懂。\n")
	return b.String()
}

// QuickPromptInput carries the caller-supplied snapshot for a quick analysis,
// which does not touch storage.
type QuickPromptInput struct {
	Ticker       string
	StockName    string
	CurrentPrice float64
	Volume       *int64
	MarketCap    *float64
	PERatio      *float64
	History      []models.PricePoint
}

// BuildQuickPrompt renders the richer self-contained prompt used by quick
// analysis. It asks the model for an explicit confidence and overall score
// so the parser has something to extract.
func BuildQuickPrompt(in QuickPromptInput) string {
	name := in.StockName
	if name == "" {
		name = in.Ticker
	}
	var b strings.Builder
	b.WriteString("你是一位专业的股票分析师，请对以下股票进行全面分析：\n\n")
	b.WriteString("## 股票基本信息\n")
	fmt.Fprintf(&b, "- 股票代码：%s\n", in.Ticker)
	fmt.Fprintf(&b, "- 股票名称：%s\n", name)
	fmt.Fprintf(&b, "- 当前价格：%.2f\n", in.CurrentPrice)
	fmt.Fprintf(&b, "- 成交量：%s\n", int64OrUnset(in.Volume))
	fmt.Fprintf(&b, "- 市值：%s\n", floatOrUnset(in.MarketCap))
	fmt.Fprintf(&b, "- 市盈率：%s\n\n", floatOrUnset(in.PERatio))

	b.WriteString("## 价格历史数据\n")
	if len(in.History) == 0 {
		b.WriteString("暂无历史数据\n")
	} else {
		for i, p := range in.History {
			change := p.Change
			if change == "" {
				change = "N/A"
			}
			fmt.Fprintf(&b, "第%d天：价格 %.2f，涨跌幅 %s%%\n", i+1, p.Price, change)
		}
	}

	b.WriteString(`
## 分析要求
请从以下几个维度进行专业分析，并给出具体的投资建议：

### 1. 技术分析
- 分析价格趋势（上涨/下跌/横盘）
- 识别关键的支撑位和阻力位
- 评估当前价格的技术指标信号
- 预测短期价格走势

### 2. 基本面分析
- 评估当前估值水平（基于市盈率等指标）
- 分析公司的财务健康状况
- 行业地位和竞争优势
- 宏观经济环境影响

### 3. 风险评估
- 识别主要风险因素
- 评估价格波动性
- 市场情绪和流动性风险
- 行业特定风险

### 4. 投资建议
- 明确给出买入/持有/卖出建议
- 提供目标价位区间
- 建议持有期限
- 风险控制措施

### 5. 置信度评估
- 对分析结果的置信度（1-10分）
- 影响置信度的关键因素

## 输出格式要求
请用中文回答，保持专业性的同时确保普通投资者能够理解。
分析要客观、平衡，既要指出机会也要提醒风险。
最后请给出一个综合评分（1-10分，10分最好）。

开始分析：
`)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func numOrNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func int64OrUnset(v *int64) string {
	if v == nil {
		return "未提供"
	}
	return fmt.Sprintf("%d", *v)
}

func floatOrUnset(v *float64) string {
	if v == nil {
		return "未提供"
	}
	return fmt.Sprintf("%.2f", *v)
}
