package forum

import (
	"time"

	"precinct/internal/identity"
)

// Landing page sections, in display order.
const (
	SectionPublic     = "ОБЩЕСТВЕННАЯ СЕКЦИЯ"
	SectionInternal   = "ВНУТРЕННЯЯ СЕКЦИЯ"
	SectionReports    = "СЛУЖЕБНЫЕ ОТЧЕТЫ"
	SectionOperations = "ОФИС ОПЕРАЦИЙ"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// SeedUsers is the demo roster the intranet boots with.
func SeedUsers() []User {
	return []User{
		{
			ID:        "u_admin",
			Username:  "Miguel Martins",
			Rank:      identity.RankChiefOfPolice,
			JoinedAt:  date(2025, time.August, 30),
			Posts:     15,
			Badges:    []identity.Plaque{identity.PlaqueFactionManagement, identity.PlaqueOOCTSOBMetro, identity.PlaqueMDPlatoonD, identity.PlaqueDBLeadership},
			Status:    StatusOnline,
			Signature: "System Administrator",
			OOCName:   "mr12",
			Discord:   "l8sh82013",
		},
		{
			ID:        "u1",
			Username:  "Timothy Bradford",
			Rank:      identity.RankSergeantII,
			JoinedAt:  date(2004, time.October, 12),
			Posts:     1402,
			Badges:    []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaqueMDPlatoonD, identity.PlaqueFactionManagement},
			Status:    StatusOnline,
			Signature: "To Protect and to Serve.\nFoothill Watch Commander.",
			OOCName:   "TimTheTank",
			Discord:   "bradford#1234",
		},
		{
			ID:        "u2",
			Username:  "Lucy Chen",
			Rank:      identity.RankOfficerII,
			JoinedAt:  date(2008, time.January, 5),
			Posts:     42,
			Badges:    []identity.Plaque{identity.PlaqueOOCBFoothill},
			Status:    StatusPatrolling,
			Signature: "Be the change.",
			OOCName:   "Luce",
			Discord:   "chen_fan",
		},
		{
			ID:        "u3",
			Username:  "Wade Grey",
			Rank:      identity.RankLieutenant,
			JoinedAt:  date(1995, time.November, 1),
			Posts:     5501,
			Badges:    []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaqueFactionManagement},
			Status:    StatusOffline,
			Signature: "Watch Commander - Foothill Division\nMy office is always open.",
			OOCName:   "GreyGhost",
			Discord:   "sarge_grey",
		},
		{
			ID:        "u4",
			Username:  "Angela Lopez",
			Rank:      identity.RankDetectiveII,
			JoinedAt:  date(2006, time.March, 15),
			Posts:     320,
			Badges:    []identity.Plaque{identity.PlaqueDBRHD},
			Status:    StatusOnline,
			Signature: "Major Crimes Division.",
			OOCName:   "Angie",
			Discord:   "lopez_law",
		},
		{
			ID:       "u5",
			Username: "John Nolan",
			Rank:     identity.RankOfficerI,
			JoinedAt: date(2008, time.May, 20),
			Posts:    12,
			Badges:   []identity.Plaque{identity.PlaqueOOCBFoothill},
			Status:   StatusPatrolling,
			OOCName:  "Rookie40",
			Discord:  "nolan_const",
		},
		{
			ID:        "u6",
			Username:  "Nyla Harper",
			Rank:      identity.RankSergeantI,
			JoinedAt:  date(2002, time.February, 10),
			Posts:     890,
			Badges:    []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaqueMDPlatoonD, identity.PlaqueMDTraining},
			Status:    StatusOffline,
			Signature: "Tactical Support Element",
			OOCName:   "Warrior",
			Discord:   "harper_tact",
		},
		{
			ID:        "u7",
			Username:  "Harry Bosch",
			Rank:      identity.RankDetectiveIII,
			JoinedAt:  date(1990, time.August, 14),
			Posts:     2100,
			Badges:    []identity.Plaque{identity.PlaqueDBRHD},
			Status:    StatusOnline,
			Signature: "Everybody counts or nobody counts.",
			OOCName:   "Hieronymus",
			Discord:   "jazz_fan",
		},
	}
}

// SeedCategories is the full category forest: section hubs with their
// subforum links plus a leaf category for every link target.
func SeedCategories() []Category {
	return []Category{
		// Public section.
		{
			ID:      "c_public_1",
			Name:    "Основной раздел",
			Section: SectionPublic,
			Subforums: []SubforumLink{
				{ID: "c_public_pr", Name: "Отдел по связям с общественностью"},
				{ID: "c_public_lic", Name: "Лицензирование и разрешения"},
				{ID: "c_public_complaints", Name: "Раздел жалоб и благодарностей"},
				{ID: "c_public_records", Name: "Запросы криминального прошлого"},
				{ID: "c_public_crime", Name: "Сообщить о преступлении"},
				{ID: "c_public_ridealong", Name: "Программа пробного патруля (Ride Along)"},
			},
		},
		{
			ID:      "c_public_2",
			Name:    "Трудоустройство",
			Section: SectionPublic,
			Subforums: []SubforumLink{
				{ID: "c_emp_academy", Name: "Полицейская академия"},
				{ID: "c_emp_civilian", Name: "Трудоустройство гражданским сотрудником"},
				{ID: "c_emp_backhome", Name: "(( Программа возвращения домой (BACKHOME) ))"},
				{ID: "c_emp_leo", Name: "(( Программа адаптации опытных игроков LEO ))"},
			},
		},

		// Internal section.
		{
			ID:          "c_internal_1",
			Name:        "Руководства и политика департамента",
			Description: "Руководства и политика департамента.",
			Section:     SectionInternal,
			Subforums: []SubforumLink{
				{ID: "c_int_manual", Name: "Официальное руководство департамента полиции"},
				{ID: "c_int_guides", Name: "(( Игровые гайды от игроков ))"},
			},
			Restricted: true,
		},
		{
			ID:          "c_internal_2",
			Name:        "Кадровые объявления",
			Description: "Раздел служебных объявлений касающихся кадрового состава департамента.",
			Section:     SectionInternal,
			Subforums: []SubforumLink{
				{ID: "c_hr_promo", Name: "Повышения, понижения и переводы"},
				{ID: "c_hr_warn", Name: "Предупреждения и выговоры"},
				{ID: "c_hr_fire", Name: "Отстранения и увольнения"},
				{ID: "c_hr_award", Name: "Награды"},
			},
			Restricted: true,
		},

		// Duty reports.
		{
			ID:          "c_reports_1",
			Name:        "Ситуационный отчет",
			Description: "Раздел для отчётности об любых инцидентах.",
			Section:     SectionReports,
			Subforums: []SubforumLink{
				{ID: "c_rep_form", Name: "Форма отчета"},
				{ID: "c_rep_force", Name: "Отчёт о применении смертельной силы"},
				{ID: "c_rep_seize", Name: "Отчёт об изъятии оружия"},
				{ID: "c_rep_archive", Name: "Архив"},
			},
			Restricted: true,
		},

		// Office of Operations.
		{
			ID:          "c_ops_foothill",
			Name:        "Участок Футхилл (Foothill Area)",
			Description: "Станция Футхилл.",
			Section:     SectionOperations,
			Subforums: []SubforumLink{
				{ID: "c_fh_info", Name: "Информационный стенд"},
				{ID: "c_fh_ftp", Name: "Программа полевой подготовки (FTP)"},
				{ID: "c_fh_slo", Name: "Программа ведущих офицеров (SLO)"},
				{ID: "c_fh_archive", Name: "Архив"},
			},
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaqueOOCBNE},
		},
		{
			ID:          "c_ops_detective",
			Name:        "Детективная секция (Detective Section)",
			Description: "Детективная секция занимается расследованием преступлений.",
			Section:     SectionOperations,
			Subforums: []SubforumLink{
				{ID: "c_det_rhd", Name: "RHD (Robbery Homicide Division)"},
				{ID: "c_det_gnd", Name: "GND (Gang and Narcotics Division)"},
				{ID: "c_det_ged", Name: "GED (Gang Enforcement Detail)"},
			},
			Restricted: true,
			AllowedPlaques: []identity.Plaque{
				identity.PlaqueDBRHD,
				identity.PlaqueDBGND,
				identity.PlaqueDBIAD,
				identity.PlaqueDBLeadership,
				identity.PlaqueDBFSGED,
			},
		},
		{
			ID:          "c_ops_metro",
			Name:        "Дивизион Метрополитен (Metropolitan Division)",
			Description: "Элитное подразделение, занимающееся решением ситуаций повышенного риска.",
			Section:     SectionOperations,
			Subforums: []SubforumLink{
				{ID: "c_met_swat", Name: "D Platoon (SWAT)"},
				{ID: "c_met_esd", Name: "ESD (Emergency Services Detail)"},
				{ID: "c_met_k9", Name: "K-9 Platoon"},
			},
			Restricted: true,
			AllowedPlaques: []identity.Plaque{
				identity.PlaqueMDPlatoonD,
				identity.PlaqueMDPlatoonK9,
				identity.PlaqueMDESD,
				identity.PlaqueMDTraining,
				identity.PlaqueOOCTSOBMetro,
			},
		},

		// Public leaves.
		{ID: "c_public_pr", Name: "Отдел по связям с общественностью", ParentID: "c_public_1"},
		{ID: "c_public_lic", Name: "Лицензирование и разрешения", ParentID: "c_public_1"},
		{ID: "c_public_complaints", Name: "Раздел жалоб и благодарностей", ParentID: "c_public_1"},
		{ID: "c_public_records", Name: "Запросы криминального прошлого", ParentID: "c_public_1"},
		{ID: "c_public_crime", Name: "Сообщить о преступлении", ParentID: "c_public_1"},
		{ID: "c_public_ridealong", Name: "Программа пробного патруля (Ride Along)", ParentID: "c_public_1"},
		{ID: "c_emp_academy", Name: "Полицейская академия", ParentID: "c_public_2"},
		{ID: "c_emp_civilian", Name: "Трудоустройство гражданским сотрудником", ParentID: "c_public_2"},
		{ID: "c_emp_backhome", Name: "(( Программа возвращения домой (BACKHOME) ))", ParentID: "c_public_2"},
		{ID: "c_emp_leo", Name: "(( Программа адаптации опытных игроков LEO ))", ParentID: "c_public_2"},

		// Internal leaves.
		{ID: "c_int_manual", Name: "Официальное руководство департамента полиции", ParentID: "c_internal_1", Restricted: true},
		{ID: "c_int_guides", Name: "(( Игровые гайды от игроков ))", ParentID: "c_internal_1", Restricted: true},
		{ID: "c_hr_promo", Name: "Повышения, понижения и переводы", ParentID: "c_internal_2", Restricted: true},
		{ID: "c_hr_warn", Name: "Предупреждения и выговоры", ParentID: "c_internal_2", Restricted: true},
		{ID: "c_hr_fire", Name: "Отстранения и увольнения", ParentID: "c_internal_2", Restricted: true},
		{ID: "c_hr_award", Name: "Награды", ParentID: "c_internal_2", Restricted: true},

		// Report leaves.
		{ID: "c_rep_form", Name: "Форма отчета", ParentID: "c_reports_1", Restricted: true},
		{ID: "c_rep_force", Name: "Отчёт о применении смертельной силы", ParentID: "c_reports_1", Restricted: true},
		{ID: "c_rep_seize", Name: "Отчёт об изъятии оружия", ParentID: "c_reports_1", Restricted: true},
		{ID: "c_rep_archive", Name: "Архив", ParentID: "c_reports_1", Restricted: true},

		// Foothill leaves.
		{
			ID: "c_fh_info", Name: "Информационный стенд", ParentID: "c_ops_foothill",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueOOCBFoothill},
		},
		{
			ID: "c_fh_ftp", Name: "Программа полевой подготовки (FTP)", ParentID: "c_ops_foothill",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueOOCBFoothill, identity.PlaquePDFTPHead},
		},
		{
			ID: "c_fh_slo", Name: "Программа ведущих офицеров (SLO)", ParentID: "c_ops_foothill",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueOOCBFoothill},
		},
		{
			ID: "c_fh_archive", Name: "Архив", ParentID: "c_ops_foothill",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueOOCBFoothill},
		},

		// Detective leaves.
		{
			ID: "c_det_rhd", Name: "RHD (Robbery Homicide Division)", ParentID: "c_ops_detective",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueDBRHD, identity.PlaqueDBLeadership},
		},
		{
			ID: "c_det_gnd", Name: "GND (Gang and Narcotics Division)", ParentID: "c_ops_detective",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueDBGND, identity.PlaqueDBLeadership},
		},
		{
			ID: "c_det_ged", Name: "GED (Gang Enforcement Detail)", ParentID: "c_ops_detective",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueDBFSGED, identity.PlaqueDBLeadership},
		},

		// Metro leaves.
		{
			ID: "c_met_swat", Name: "D Platoon (SWAT)", ParentID: "c_ops_metro",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueMDPlatoonD, identity.PlaqueOOCTSOBMetro},
		},
		{
			ID: "c_met_esd", Name: "ESD (Emergency Services Detail)", ParentID: "c_ops_metro",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueMDESD, identity.PlaqueOOCTSOBMetro},
		},
		{
			ID: "c_met_k9", Name: "K-9 Platoon", ParentID: "c_ops_metro",
			Restricted:     true,
			AllowedPlaques: []identity.Plaque{identity.PlaqueMDPlatoonK9, identity.PlaqueOOCTSOBMetro},
		},
	}
}

// SeedThreads returns demo threads, most recently bumped first.
func SeedThreads() []Thread {
	return []Thread{
		{
			ID: "t6", CategoryID: "c_det_ged", Title: "GANG INJUNCTION: Davis Neighborhood",
			AuthorID: "u7", CreatedAt: date(2025, time.December, 5), Views: 200, Replies: 5,
			LastPostAt: date(2025, time.December, 7), LastPostAuthorID: "u7",
		},
		{
			ID: "t5", CategoryID: "c_reports_1", Title: "UOFIR #56 - 02/12/2025",
			AuthorID: "u2", CreatedAt: date(2025, time.December, 2), Views: 55, Replies: 2,
			LastPostAt: date(2025, time.December, 6), LastPostAuthorID: "u3",
		},
		{
			ID: "t3", CategoryID: "c_met_swat", Title: "SWAT Training Schedule - November 2025",
			AuthorID: "u6", CreatedAt: date(2025, time.November, 1), Views: 89, Replies: 15,
			LastPostAt: date(2025, time.November, 3), LastPostAuthorID: "u6",
		},
		{
			ID: "t4", CategoryID: "c_public_1", Title: "Press Release: Downtown Incident",
			AuthorID: "u1", CreatedAt: date(2025, time.August, 30), Views: 1200, Replies: 0,
			LastPostAt: date(2025, time.August, 30), LastPostAuthorID: "u1",
		},
		{
			ID: "t1", CategoryID: "c_ops_foothill", Title: "[P-2] Probationary Officer Report - John Nolan",
			AuthorID: "u5", CreatedAt: date(2024, time.October, 20), Views: 120, Replies: 4,
			LastPostAt: date(2024, time.October, 21), LastPostAuthorID: "u1",
		},
		{
			ID: "t2", CategoryID: "c_det_rhd", Title: `CASE FILE: 24-991 "Golden State"`,
			AuthorID: "u7", CreatedAt: date(2024, time.September, 15), Views: 450, Replies: 12,
			LastPostAt: date(2024, time.September, 16), LastPostAuthorID: "u4",
		},
	}
}

func SeedPosts() []Post {
	return []Post{
		{ID: "p1", ThreadID: "t1", AuthorID: "u5", Content: "Reporting for duty. Day 1 summary attached.", CreatedAt: date(2024, time.October, 20)},
		{ID: "p2", ThreadID: "t1", AuthorID: "u1", Content: "Good work, boot. Watch your spacing.", CreatedAt: date(2024, time.October, 21)},
		{ID: "p3", ThreadID: "t2", AuthorID: "u7", Content: "Initial evidence gathered from the scene.", CreatedAt: date(2024, time.September, 15)},
		{ID: "p4", ThreadID: "t2", AuthorID: "u4", Content: "Updating file with ballistics report.", CreatedAt: date(2024, time.September, 16)},
		{ID: "p5", ThreadID: "t3", AuthorID: "u6", Content: "Mandatory range day for D Platoon on Friday.", CreatedAt: date(2025, time.November, 1)},
		{ID: "p6", ThreadID: "t6", AuthorID: "u7", Content: "Initiating injunction protocols for 18th Street.", CreatedAt: date(2025, time.December, 5)},
	}
}
