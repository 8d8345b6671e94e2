package i18n

import "sort"

// ruButtonTexts maps every canonical button label to its Russian
// display text.
var ruButtonTexts = map[string]string{
	BtnCancel:    "❌ Отмена",
	BtnBackMain:  "⬅️ Главное меню",
	BtnBackAdmin: "🔙 Админ панель",
	BtnSkip:      "⏭ Пропустить",

	BtnSendContact: "📲 Отправить номер",

	BtnAdminPanel:    "🛠 Админ панель",
	BtnBroadcast:     "📣 Рассылка",
	BtnAdminStats:    "📊 Системная статистика",
	BtnAdminUsers:    "📋 Пользователи",
	BtnAdminPro:      "💎 Управление Pro",
	BtnAdminChannels: "🌐 Настройка каналов/групп",
	BtnAdminGuide:    "📘 Инструкция админа",
	BtnProAdd:        "➕ Добавить Pro",
	BtnProRemove:     "➖ Удалить Pro",
	BtnChSetCatalog:  "📚 ID каталога",
	BtnChSetRegion:   "🗺 ID по области",
	BtnChList:        "📋 Подключенные чаты",
	BtnReqAdd:        "➕ Добавить обязательный канал",
	BtnReqRemove:     "➖ Удалить обязательный канал",
	BtnReqList:       "📌 Обязательные каналы",

	BtnBcAll:      "👥 Всем",
	BtnBcDrivers:  "🚛 Водителям",
	BtnBcShippers: "📦 Грузоотправителям",
	BtnBcPro:      "💎 Pro пользователям",

	BtnMenuCargo:    "📦 Разместить груз",
	BtnMenuDriver:   "🚛 Анкета водителя",
	BtnMenuProfile:  "👤 Мой профиль",
	BtnMenuAnalysis: "🧠 Анализ профиля",
	BtnMenuStats:    "📊 Статистика",
	BtnMenuPro:      "💎 Pro тариф",
	BtnMenuNews:     "📣 Новости",
	BtnMenuContact:  "☎️ Связь",
	BtnMenuSettings: "⚙️ Настройки",
	BtnSettingsRole: "🔄 Сменить роль",
	BtnSettingsLang: "🌐 Сменить язык",

	BtnCargoConfirm: "✅ Отправить в группы",
	BtnCargoEdit:    "✏️ Изменить",

	RoleLabelDriver:  "🚛 Водитель",
	RoleLabelShipper: "📦 Грузоотправитель",

	"💵 Naqd":     "💵 Наличные",
	"💳 Karta":    "💳 Карта",
	"🏦 O'tkazma": "🏦 Перевод",
}

// textCanonMap maps any displayed button label (Russian or canonical)
// back to the canonical label. Built from ruButtonTexts plus the labels
// that are identical in both languages.
var textCanonMap = func() map[string]string {
	m := make(map[string]string, 2*len(ruButtonTexts)+4)
	for canon, ru := range ruButtonTexts {
		m[ru] = canon
		m[canon] = canon
	}
	m[LangSelectUz] = LangSelectUz
	m[LangSelectRu] = LangSelectRu
	return m
}()

// ruTextTranslations holds the phrase substitution table for outbound
// text. Applied longest pattern first so overlapping phrases do not
// corrupt each other.
var ruTextTranslations = map[string]string{
	"Asosiy menyu.": "Главное меню.",
	"Asosiy menyu":  "Главное меню",
	"Kerakli bo'limni menyudan tanlang.":                  "Выберите нужный раздел в меню.",
	"Jarayon bekor qilindi.":                              "Действие отменено.",
	"Xush kelibsiz! Asosiy menyudan bo'limni tanlang.":    "Добро пожаловать! Выберите раздел в главном меню.",
	"Profilingiz tugallanmagan. /start orqali davom eting.":    "Ваш профиль не завершен. Продолжите через /start.",
	"Profilingiz tugallanmagan. /start ni bosing.":              "Ваш профиль не завершен. Нажмите /start.",
	"Profilingiz tugallanmagan. Avval /start orqali to'ldiring.": "Профиль не завершен. Сначала заполните через /start.",
	"Buyruq topilmadi. Menyudan foydalaning yoki /start ni bosing.": "Команда не найдена. Используйте меню или нажмите /start.",
	"Yangi rolni tanlang:":                     "Выберите новую роль:",
	"Rolni tugmadan tanlang.":                  "Выберите роль кнопкой.",
	"Pastdagi tugmalardan birini tanlang.":     "Выберите одну из кнопок ниже.",
	"Sizning rolingizni tanlang:":              "Выберите вашу роль:",
	"Telefon formati noto'g'ri. Masalan: +998901234567": "Неверный формат телефона. Пример: +998901234567",
	"Ism kamida 2 ta harf bo'lsin. Qayta kiriting:":      "Имя должно быть не короче 2 символов. Введите снова:",
	"Familiya kamida 2 ta harf bo'lsin. Qayta kiriting:": "Фамилия должна быть не короче 2 символов. Введите снова:",
	"Telefon raqamingizni yuboring:":                     "Отправьте номер телефона:",
	"Familiyangizni kiriting:":                           "Введите фамилию:",
	"Ismingizni kiriting:":                               "Введите имя:",
	"Assalomu alaykum!":                                  "Здравствуйте!",
	"Logistik platformaga xush kelibsiz.":                "Добро пожаловать в логистическую платформу.",
	"Ro'yxatdan o'tish tugadi. Endi yuk joylashingiz mumkin.": "Регистрация завершена. Теперь вы можете размещать груз.",
	"Haydovchi anketasi saqlandi.":                       "Анкета водителя сохранена.",
	"Yuk e'loningiz saqlandi va yuborildi.":              "Ваше объявление сохранено и отправлено.",
	"Yuborilgan chatlar":                                 "Отправлено чатов",
	"Hech bir chat ulanmagan. Admin paneldan katalog/viloyat chat ID larni kiriting.": "Ни один чат не подключен. Укажите ID каталога/областных чатов в админ панели.",
	"Yuborishda xatolar": "Ошибок отправки",
	"Sabab:":             "Причина:",
	"Yuk qayerdan yuklanadi? Viloyatni tanlang:": "Откуда загружается груз? Выберите область:",
	"Yuk qayerga boradi? Viloyatni tanlang:":     "Куда отправляется груз? Выберите область:",
	"Yuk turini kiriting (masalan: sement, mebel, oziq-ovqat):": "Введите тип груза (например: цемент, мебель, продукты):",
	"Og'irligini kiriting (tonna):":                     "Введите вес (тонна):",
	"Hajmini kiriting (m3):":                            "Введите объем (м3):",
	"Taklif narxini kiriting (so'm):":                   "Введите предлагаемую цену (сум):",
	"Yuklash sanasi (masalan: 25.02.2026 yoki bugun):":  "Дата загрузки (например: 25.02.2026 или сегодня):",
	"To'lov turini tanlang:":                            "Выберите способ оплаты:",
	"Qo'shimcha izoh (ixtiyoriy):":                      "Дополнительный комментарий (необязательно):",
	"Tahrirlash boshlandi. Qayerdan yuklanadi?":         "Редактирование начато. Откуда загружается груз?",
	"Viloyatni tugmadan tanlang.":                       "Выберите область кнопкой.",
	"Raqam kiriting. Masalan: 86":                       "Введите число. Например: 86",
	"Raqam kiriting. Masalan: 22":                       "Введите число. Например: 22",
	"Raqam kiriting. Masalan: 20":                       "Введите число. Например: 20",
	"Narxni raqamda kiriting. Masalan: 2500000":         "Введите цену числом. Например: 2500000",
	"Yuklash sanasini kiriting.":                        "Введите дату загрузки.",
	"To'lov turini tugmadan tanlang.":                   "Выберите тип оплаты кнопкой.",
	"Yuk turini to'liqroq kiriting.":                    "Укажите тип груза подробнее.",
	"Mashina turi juda qisqa. Qayta kiriting:":          "Тип машины слишком короткий. Введите снова:",
	"Qaysi yo'nalishlarda ishlaysiz? (masalan: Toshkent-Samarqand-Farg'ona)": "По каким маршрутам работаете? (например: Ташкент-Самарканд-Фергана)",
	"Yo'nalishni to'liqroq yozing.":                     "Укажите маршрут подробнее.",
	"1 km uchun narx (ixtiyoriy):":                      "Цена за 1 км (необязательно):",
	"Raqam kiriting yoki `⏭ O'tkazib yuborish` ni bosing.": "Введите число или нажмите `⏭ Пропустить`.",
	"Sozlamalar:":                          "Настройки:",
	"Bog'lanish:":                          "Связь:",
	"Yangiliklar bo'limi hali sozlanmagan.": "Раздел новостей пока не настроен.",
	"Yangiliklar kanali:":                  "Канал новостей:",
	"Tilni tanlang / Выберите язык:":       "Выберите язык:",
	"Tilni tugma orqali tanlang / Выберите язык кнопкой.": "Выберите язык кнопкой.",
	"Til saqlandi. Asosiy menyu.":          "Язык сохранен. Главное меню.",
	"Botdan foydalanish uchun majburiy obuna kerak": "Для использования бота требуется обязательная подписка",
	"Quyidagi kanal(lar)ga obuna bo'ling va `✅ Tekshirish` ni bosing:": "Подпишитесь на следующие каналы и нажмите `✅ Проверить`:",
	"Hali barcha kanallarga obuna bo'lmadingiz.": "Вы еще не подписались на все каналы.",
	"Obuna tasdiqlandi. Davom etishingiz mumkin.": "Подписка подтверждена. Можете продолжить.",
	"Obuna tasdiqlandi. Endi /start ni bosing.":   "Подписка подтверждена. Теперь нажмите /start.",
	"Admin uchun obuna tekshiruvi shart emas.":    "Для админа проверка подписки не требуется.",
	"PRO foydalanuvchi afzalliklari:":             "Преимущества PRO пользователя:",
	"E'lonlar ajratib ko'rsatiladi":               "Объявления выделяются",
	"Yuqoriroq ko'rinish imkoniyati":              "Приоритетный показ",
	"Tezkor navbat":                               "Быстрая очередь",
	"Tariflar (misol):":                           "Тарифы (пример):",
	"Ulash uchun admin bilan bog'laning.":         "Для подключения свяжитесь с админом.",
	"Rolingiz yuk beruvchi qilib yangilandi.":     "Ваша роль обновлена на грузоотправителя.",
	"Rolingiz haydovchi qilib yangilandi.":        "Ваша роль обновлена на водителя.",
	"Profil ma'lumotlari":                         "Данные профиля",
	"Ism:":                                        "Имя:",
	"Familiya:":                                   "Фамилия:",
	"Telefon:":                                    "Телефон:",
	"Status:":                                     "Статус:",
	"Rol:":                                        "Роль:",
	"Haydovchi anketasi":                          "Анкета водителя",
	"Mashina ma'lumoti":                           "Информация о машине",
	"Turi:":                                       "Тип:",
	"Sig'imi:":                                    "Грузоподъемность:",
	"Hajmi:":                                      "Объем:",
	"Yo'nalish:":                                  "Маршрут:",
	"Izoh:":                                       "Комментарий:",
	"Nomer ko'rish":                               "Показать номер",
	"Xabarga o'tish":                              "Перейти к сообщению",
	"Tekshirish":                                  "Проверить",
	"🚛 Haydovchi":                                 "🚛 Водитель",
	"📦 Yuk beruvchi":                              "📦 Грузоотправитель",
	"Belgilanmagan":                               "Не указано",
	"Oddiy":                                       "Обычный",
	"Foydalanuvchi topilmadi.":                    "Пользователь не найден.",
	"Xatolik: foydalanuvchi topilmadi.":           "Ошибка: пользователь не найден.",
	"Xatolik":                                     "Ошибка",
	"Format":                                      "Формат",
	"Masalan":                                     "Например",
	"Noto'g'ri format. Raqam kiriting.":           "Неверный формат. Введите число.",
	"Kun soni 0 dan katta bo'lishi kerak.":        "Количество дней должно быть больше 0.",
	"Tugash sanasi":                               "Дата окончания",
	"Tugash":                                      "Окончание",
	"Pro qo'shildi.":                              "Pro добавлен.",
	"Pro o'chirildi":                              "Pro удален",
	"Katalog chat saqlandi":                       "Чат каталога сохранен",
	"chati saqlandi":                              "чат сохранен",
	"chat saqlandi":                               "чат сохранен",
	"Tekshiruv":                                   "Проверка",
	"Botni shu chatga admin/member qilib qo'shing va qayta tekshiring.": "Добавьте бота в этот чат как администратора/участника и проверьте снова.",
	"Viloyatni tanlang:":                          "Выберите область:",
	"Kanal/Guruh sozlash":                         "Настройка каналов/групп",
	"Majburiy kanal":                              "Обязательный канал",
	"Majburiy kanallar":                           "Обязательные каналы",
	"Katalog chat":                                "Чат каталога",
	"Yuborildi":                                   "Отправлено",
	"Xato":                                        "Ошибка",
	"Foydalanuvchilar topilmadi.":                 "Пользователи не найдены.",
	"Oxirgi foydalanuvchilar (20 ta)":             "Последние пользователи (20)",
	"Qaysi auditoriyaga yuborilsin?":              "Кому отправить рассылку?",
	"Yuboriladigan xabarni yuboring (text/photo/video ham bo'lishi mumkin).": "Отправьте сообщение для рассылки (можно текст/фото/видео).",
	"Broadcast yakunlandi.":                       "Рассылка завершена.",
	"Admin statistika":                            "Статистика администратора",
	"Foydalanuvchilar:":                           "Пользователи:",
	"Haydovchilar:":                               "Водители:",
	"Yuk beruvchilar:":                            "Грузоотправители:",
	"Jami yuk e'lonlari:":                         "Всего объявлений:",
	"Narx-navo":                                   "Цены",
	"Ulangan viloyatlar:":                         "Подключенные области:",
	"Ulanmagan":                                   "Не подключено",
	"Ulanmagan:":                                  "Не подключено:",
	"Kanal/Guruh ulanishi":                        "Подключение каналов/групп",
	"Admin yo'riqnoma (to'liq)":                   "Инструкция админа (полная)",
	"Bog'lanish":                                  "Связь",
	"Sozlamalar":                                  "Настройки",
}

type phrasePair struct {
	src, dst string
}

// ruPhrases is ruTextTranslations ordered longest source first, with a
// stable tiebreak so output never depends on map iteration order.
var ruPhrases = func() []phrasePair {
	pairs := make([]phrasePair, 0, len(ruTextTranslations))
	for src, dst := range ruTextTranslations {
		pairs = append(pairs, phrasePair{src: src, dst: dst})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if len(pairs[i].src) != len(pairs[j].src) {
			return len(pairs[i].src) > len(pairs[j].src)
		}
		return pairs[i].src < pairs[j].src
	})
	return pairs
}()
