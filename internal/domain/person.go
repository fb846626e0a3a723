package domain

// Person 对象者（被照护人）基本信息，页面上只读展示
type Person struct {
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
	Kana      string `json:"kana"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Sex       string `json:"sex"`
	CareLevel string `json:"care_level"` // 要介護度，例如 "要介護2"
	Address   string `json:"address"`
}

// DemoPerson 演示用对象者
func DemoPerson() Person {
	return Person{
		PersonID:  "00000000-0000-0000-0000-000000000101",
		Name:      "山田 花子",
		Kana:      "ヤマダ ハナコ",
		BirthDate: "1941-04-12",
		Sex:       "女",
		CareLevel: "要介護2",
		Address:   "東京都世田谷区",
	}
}
