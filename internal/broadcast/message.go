package broadcast

import (
	"fmt"
	"strings"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

const (
	languageRU = "RU"
	languageUZ = "UZ"
)

var categoryLabelsRU = map[enums.NoticeCategory]string{
	enums.NoticeCategorySafetyAlert:       "🚨 Оповещение о безопасности",
	enums.NoticeCategoryMissingPerson:     "👤 Пропал человек",
	enums.NoticeCategoryLostItem:          "📦 Пропала вещь",
	enums.NoticeCategoryScamWarning:       "⚠️ Осторожно, мошенники",
	enums.NoticeCategoryMedicalEmergency:  "🏥 Нужна медицинская помощь",
	enums.NoticeCategoryHousingNeeded:     "🏠 Жилье",
	enums.NoticeCategoryRideShare:         "🚗 Попутчики",
	enums.NoticeCategoryJobPosting:        "💼 Вакансия",
	enums.NoticeCategoryLostDocument:      "📄 Утерян документ",
	enums.NoticeCategoryEventAnnouncement: "📅 Мероприятие",
	enums.NoticeCategoryCourierNeeded:     "🚚 Доставка",
}

var categoryLabelsUZ = map[enums.NoticeCategory]string{
	enums.NoticeCategorySafetyAlert:       "🚨 Xavfsizlik haqida ogohlantirish",
	enums.NoticeCategoryMissingPerson:     "👤 Odam yo'qoldi",
	enums.NoticeCategoryLostItem:          "📦 Narsa yo'qoldi",
	enums.NoticeCategoryScamWarning:       "⚠️ Ehtiyot bo'ling, firibgarlar",
	enums.NoticeCategoryMedicalEmergency:  "🏥 Tibbiy yordam kerak",
	enums.NoticeCategoryHousingNeeded:     "🏠 Uy-joy",
	enums.NoticeCategoryRideShare:         "🚗 Yo'lovchilar",
	enums.NoticeCategoryJobPosting:        "💼 Ish taklifi",
	enums.NoticeCategoryLostDocument:      "📄 Hujjat yo'qoldi",
	enums.NoticeCategoryEventAnnouncement: "📅 Tadbir",
	enums.NoticeCategoryCourierNeeded:     "🚚 Yetkazib berish",
}

// CategoryLabel returns the localized category headline, falling back
// to Russian and then to the raw enum value.
func CategoryLabel(category enums.NoticeCategory, language string) string {
	if strings.EqualFold(language, languageUZ) {
		if label, ok := categoryLabelsUZ[category]; ok {
			return label
		}
	}
	if label, ok := categoryLabelsRU[category]; ok {
		return label
	}
	return string(category)
}

// RenderMessage builds the delivery text for one recipient.
func RenderMessage(notice *models.Notice, language string) string {
	uz := strings.EqualFold(language, languageUZ)

	var b strings.Builder
	b.WriteString(CategoryLabel(notice.Category, language))
	b.WriteString("\n\n")

	if notice.Title != nil && *notice.Title != "" {
		b.WriteString(*notice.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(notice.Description)

	if location := renderLocation(notice, uz); location != "" {
		b.WriteString("\n\n")
		b.WriteString(location)
	}

	if notice.Phone != nil && *notice.Phone != "" {
		b.WriteString("\n\n")
		if uz {
			b.WriteString("📞 Aloqa: ")
		} else {
			b.WriteString("📞 Контакт: ")
		}
		b.WriteString(*notice.Phone)
	}

	return b.String()
}

func renderLocation(notice *models.Notice, uz bool) string {
	label := "📍 "
	switch {
	case notice.AddressText != nil && *notice.AddressText != "":
		return label + *notice.AddressText
	case notice.GeoName != nil && *notice.GeoName != "":
		return label + *notice.GeoName
	case notice.MapsURL != nil && *notice.MapsURL != "":
		if uz {
			return label + "Xaritada: " + *notice.MapsURL
		}
		return label + "На карте: " + *notice.MapsURL
	}
	return ""
}

// RenderRunSummary builds the moderation-channel report for a finished
// delivery run.
func RenderRunSummary(notice *models.Notice, result Result) string {
	if result.Total == 0 {
		return fmt.Sprintf("⚠️ Нет получателей для рассылки\n\n%s",
			CategoryLabel(notice.Category, languageRU))
	}
	return fmt.Sprintf(
		"✅ РАССЫЛКА ЗАВЕРШЕНА\n\n%s\n\n📊 Статистика:\n✅ Отправлено: %d\n❌ Ошибок: %d",
		CategoryLabel(notice.Category, languageRU), result.Sent, result.Failed,
	)
}
