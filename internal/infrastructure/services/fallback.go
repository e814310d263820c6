package services

import (
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// Fallback returns canned scenarios picked by keyword. It is used when no LLM
// is configured or the model answer parsed to nothing.
func (s *scenarioSynthesizer) Fallback(text, template string) []entity.Scenario {
	lower := strings.ToLower(text)
	bdd := template == TemplateBDD
	scenarios := []entity.Scenario{}

	if strings.TrimSpace(text) != "" {
		sc := entity.Scenario{
			Title:          "Temel Fonksiyonellik Testi",
			Description:    "Sistem temel olarak çalışır",
			Steps:          numbered("Uygulamayı başlat", "Temel işlemi gerçekleştir"),
			ExpectedResult: "İşlem başarıyla tamamlanır",
			Priority:       entity.PriorityHigh,
			AutomationType: entity.AutomationUI,
			TestData:       map[string]interface{}{},
		}
		if bdd {
			sc.BDDFormat = `Feature: Temel İşlevsellik
  Scenario: Sistem temel olarak çalışır
    Given sistem başlatıldı
    When temel işlem gerçekleştirilir
    Then sistem başarıyla yanıt verir`
		}
		scenarios = append(scenarios, sc)
	}

	if strings.Contains(lower, "login") || strings.Contains(lower, "giriş") {
		sc := entity.Scenario{
			Title:          "Kullanıcı Girişi",
			Description:    "Kullanıcı sisteme başarıyla giriş yapabilir",
			Steps:          numbered("Login sayfasını aç", "Geçerli email ve şifre gir", "Giriş Yap butonuna tıkla"),
			ExpectedResult: "Kullanıcı ana sayfaya yönlendirilir",
			Priority:       entity.PriorityHigh,
			AutomationType: entity.AutomationUI,
			TestData:       map[string]interface{}{"email": "test@example.com", "password": "Test123!"},
		}
		if bdd {
			sc.BDDFormat = `Feature: Kullanıcı Yönetimi
  Scenario: Geçerli kimlik bilgileriyle giriş yapılması
    Given kullanıcı login sayfasında
    When email "test@example.com" ve şifre "Test123!" girer
    And "Giriş Yap" butonuna tıklar
    Then kullanıcı ana sayfaya yönlendirilir`
		}
		scenarios = append(scenarios, sc)
	}

	if strings.Contains(lower, "search") || strings.Contains(lower, "ara") {
		sc := entity.Scenario{
			Title:          "Ürün Arama",
			Description:    "Kullanıcı ürün arayabilir",
			Steps:          numbered("Arama sayfasını aç", "Arama kutusuna ürün adı yaz", "Arama butonuna tıkla"),
			ExpectedResult: "İlgili ürünler listelenir",
			Priority:       entity.PriorityMedium,
			AutomationType: entity.AutomationUI,
			TestData:       map[string]interface{}{"searchTerm": "Laptop"},
		}
		if bdd {
			sc.BDDFormat = `Feature: Ürün Arama
  Scenario: Ürün başarıyla aranması
    Given arama sayfası açık
    When "Laptop" aranır
    Then en az bir sonuç gösterilir`
		}
		scenarios = append(scenarios, sc)
	}

	if strings.Contains(lower, "hata") || strings.Contains(lower, "error") || strings.Contains(lower, "güvenlik") {
		sc := entity.Scenario{
			Title:          "Hata Durumu Yönetimi",
			Description:    "Sistem hata durumlarını doğru şekilde yönetir",
			Steps:          numbered("Geçersiz veri gir", "İşlemi başlat"),
			ExpectedResult: "Kullanıcı dostu hata mesajı gösterilir",
			Priority:       entity.PriorityHigh,
			AutomationType: entity.AutomationUI,
			TestData:       map[string]interface{}{"invalidData": true},
		}
		if bdd {
			sc.BDDFormat = `Feature: Hata Yönetimi
  Scenario: Geçersiz giriş için hata mesajı gösterilmesi
    Given kullanıcı login sayfasında
    When boş email ve şifre ile giriş dener
    Then "Lütfen tüm alanları doldurun" hatası gösterilir`
		}
		scenarios = append(scenarios, sc)
	}

	return scenarios
}
