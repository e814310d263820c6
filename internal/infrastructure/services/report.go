package services

import (
	"fmt"
	"strings"
)

// ReportContext is the aggregate run data sent for analysis
type ReportContext struct {
	TotalRuns       int     `json:"totalRuns"`
	PassedTests     int     `json:"passedTests"`
	FailedTests     int     `json:"failedTests"`
	AverageDuration float64 `json:"averageDuration"`
}

// NoReportData is returned when there are no runs to analyze
const NoReportData = "Henüz test koşumu yapılmamış. Analiz için test verisi bekleniyor."

// ReportAnalyzer turns run statistics into a markdown summary
type ReportAnalyzer interface {
	AnalyzeReport(rc ReportContext) string
}

type reportAnalyzer struct{}

// NewReportAnalyzer creates the heuristic report analyzer
func NewReportAnalyzer() ReportAnalyzer {
	return &reportAnalyzer{}
}

func (r *reportAnalyzer) AnalyzeReport(rc ReportContext) string {
	if rc.TotalRuns <= 0 {
		return NoReportData
	}

	rate := float64(rc.PassedTests) / float64(rc.TotalRuns) * 100
	avg := rc.AverageDuration

	var b strings.Builder
	b.WriteString("**Test Raporu Analizi**\n\n**Genel Bakış:**\n")
	fmt.Fprintf(&b, "- Toplam Test Koşumu: %d\n", rc.TotalRuns)
	fmt.Fprintf(&b, "- Başarılı: %d (%%%.1f)\n", rc.PassedTests, rate)
	fmt.Fprintf(&b, "- Başarısız: %d (%%%.1f)\n", rc.FailedTests, 100-rate)
	fmt.Fprintf(&b, "- Ortalama Süre: %gms (%.1fs)\n", avg, avg/1000)
	b.WriteString("\n**Değerlendirme:**\n")

	switch {
	case rate >= 95:
		b.WriteString("**Mükemmel!** Test başarı oranınız çok yüksek.\n")
	case rate >= 80:
		b.WriteString("**İyi ama geliştirilebilir.** Başarısız testlere odaklanın.\n")
	default:
		b.WriteString("**Kritik!** Test başarı oranı düşük, acil müdahale gerekli.\n")
	}

	switch {
	case avg > 10000:
		b.WriteString("**Yavaş testler:** Ortalama test süresi 10 saniyenin üzerinde.\n")
	case avg > 5000:
		b.WriteString("**Orta performans:** Test süreleri optimize edilebilir.\n")
	default:
		b.WriteString("**Hızlı testler:** Test performansı iyi durumda.\n")
	}

	b.WriteString("\n**Öneriler:**\n")
	if rc.FailedTests > 0 {
		b.WriteString("1. Başarısız testlerin hata mesajlarını inceleyin\n")
		b.WriteString("2. Element selector'ların güncel olduğundan emin olun\n")
		b.WriteString("3. Timeout değerlerini gözden geçirin\n")
	}
	if avg > 5000 {
		fmt.Fprintf(&b, "4. Test süresini %gms azaltmayı hedefleyin\n", avg-3000)
		b.WriteString("5. Gereksiz wait'leri kaldırın\n")
		b.WriteString("6. Paralel test koşumu düşünün\n")
	}
	return b.String()
}
