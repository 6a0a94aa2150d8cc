package jsonld

import "sort"

// registeredHosts 已驗證會輸出 Recipe JSON-LD 的站點
//
// JSON-LD 解析本身不限站點，這份清單是對外宣告的
// 已知可用站點（/supported-sites 的資料來源）。
var registeredHosts = []string{
	"allrecipes.com",
	"bbc.co.uk",
	"bbcgoodfood.com",
	"bonappetit.com",
	"budgetbytes.com",
	"cookieandkate.com",
	"delish.com",
	"eatingwell.com",
	"epicurious.com",
	"food.com",
	"food52.com",
	"foodnetwork.com",
	"jamieoliver.com",
	"kingarthurbaking.com",
	"loveandlemons.com",
	"marthastewart.com",
	"minimalistbaker.com",
	"myrecipes.com",
	"nytimes.com",
	"seriouseats.com",
	"simplyrecipes.com",
	"skinnytaste.com",
	"smittenkitchen.com",
	"tasteofhome.com",
	"tasty.co",
	"thekitchn.com",
	"thepioneerwoman.com",
	"thespruceeats.com",
}

// SupportedHosts 回傳排序後的站點清單副本
func SupportedHosts() []string {
	hosts := make([]string, len(registeredHosts))
	copy(hosts, registeredHosts)
	sort.Strings(hosts)
	return hosts
}
