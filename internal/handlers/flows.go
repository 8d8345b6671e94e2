package handlers

import "github.com/yukmarkazi/cargobot/core/telegram/sessions"

// Dialog steps. Each constant names the prompt the user is answering.
const (
	stepLangSelect sessions.Step = "lang.select"

	stepRegFirstName sessions.Step = "reg.first_name"
	stepRegLastName  sessions.Step = "reg.last_name"
	stepRegPhone     sessions.Step = "reg.phone"
	stepRegRole      sessions.Step = "reg.role"

	stepDriverCarType  sessions.Step = "driver.car_type"
	stepDriverCapacity sessions.Step = "driver.capacity_ton"
	stepDriverVolume   sessions.Step = "driver.volume_m3"
	stepDriverRoutes   sessions.Step = "driver.routes"
	stepDriverPrice    sessions.Step = "driver.price_per_km"
	stepDriverNote     sessions.Step = "driver.note"

	stepCargoFrom     sessions.Step = "cargo.from_region"
	stepCargoTo       sessions.Step = "cargo.to_region"
	stepCargoType     sessions.Step = "cargo.cargo_type"
	stepCargoWeight   sessions.Step = "cargo.weight_ton"
	stepCargoVolume   sessions.Step = "cargo.volume_m3"
	stepCargoPrice    sessions.Step = "cargo.price"
	stepCargoLoadDate sessions.Step = "cargo.load_date"
	stepCargoPayment  sessions.Step = "cargo.payment_type"
	stepCargoComment  sessions.Step = "cargo.comment"
	stepCargoConfirm  sessions.Step = "cargo.confirm"

	stepSettingsRole sessions.Step = "settings.role"

	stepBcAudience sessions.Step = "admin.broadcast.audience"
	stepBcContent  sessions.Step = "admin.broadcast.content"

	stepProAdd    sessions.Step = "admin.pro.add"
	stepProRemove sessions.Step = "admin.pro.remove"

	stepChCatalog      sessions.Step = "admin.channel.catalog"
	stepChRegionSelect sessions.Step = "admin.channel.region_select"
	stepChRegionChat   sessions.Step = "admin.channel.region_chat"
	stepChReqAdd       sessions.Step = "admin.channel.required_add"
	stepChReqRemove    sessions.Step = "admin.channel.required_remove"
)

// Driver form entry modes. Recorded in the session when the form
// starts; the save path currently treats all three the same.
const (
	driverModeRegistration = "registration"
	driverModeSettings     = "settings"
	driverModeEdit         = "edit"
)

// BindFlows registers every dialog step handler on the session store.
func (h *Handlers) BindFlows() {
	h.sessions.Bind(stepLangSelect, h.langSelect)

	h.sessions.Bind(stepRegFirstName, h.regFirstName)
	h.sessions.Bind(stepRegLastName, h.regLastName)
	h.sessions.Bind(stepRegPhone, h.regPhone)
	h.sessions.Bind(stepRegRole, h.regRole)

	h.sessions.Bind(stepDriverCarType, h.driverCarType)
	h.sessions.Bind(stepDriverCapacity, h.driverCapacity)
	h.sessions.Bind(stepDriverVolume, h.driverVolume)
	h.sessions.Bind(stepDriverRoutes, h.driverRoutes)
	h.sessions.Bind(stepDriverPrice, h.driverPrice)
	h.sessions.Bind(stepDriverNote, h.driverNote)

	h.sessions.Bind(stepCargoFrom, h.cargoFromRegion)
	h.sessions.Bind(stepCargoTo, h.cargoToRegion)
	h.sessions.Bind(stepCargoType, h.cargoType)
	h.sessions.Bind(stepCargoWeight, h.cargoWeight)
	h.sessions.Bind(stepCargoVolume, h.cargoVolume)
	h.sessions.Bind(stepCargoPrice, h.cargoPrice)
	h.sessions.Bind(stepCargoLoadDate, h.cargoLoadDate)
	h.sessions.Bind(stepCargoPayment, h.cargoPayment)
	h.sessions.Bind(stepCargoComment, h.cargoComment)
	h.sessions.Bind(stepCargoConfirm, h.cargoConfirm)

	h.sessions.Bind(stepSettingsRole, h.settingsRole)

	h.sessions.Bind(stepBcAudience, h.broadcastAudience)
	h.sessions.Bind(stepBcContent, h.broadcastContent)

	h.sessions.Bind(stepProAdd, h.proAdd)
	h.sessions.Bind(stepProRemove, h.proRemove)

	h.sessions.Bind(stepChCatalog, h.channelCatalog)
	h.sessions.Bind(stepChRegionSelect, h.channelRegionSelect)
	h.sessions.Bind(stepChRegionChat, h.channelRegionChat)
	h.sessions.Bind(stepChReqAdd, h.channelRequiredAdd)
	h.sessions.Bind(stepChReqRemove, h.channelRequiredRemove)
}
