package timetable

import "strings"

// minimalSource is the smallest file holding one of every record.
var minimalSource = strings.Join([]string{
	"*LL",
	"   Linia:   4  - LINIA KOLEI MIEJSKIEJ",
	"LINIA KOLEI MIEJSKIEJ 4 - Test Line",
	"*TR",
	"R1, OrigStop, StopA ==> StopB, kursuje w obie strony",
	"*RP",
	"S1  Stop Name",
	"*TD",
	"A  Weekday",
	"*OD",
	"05.30 123",
	"#OD",
	"#TD",
	"*OP",
	"rozkład ważny od: 01.01.2024",
	"#OP",
	"#RP",
	"#TR",
	"*WK",
	"#WK",
	"#LL",
}, "\n")

// twoLineSource has two lines, the first with two routes and the second with a validity range.
var twoLineSource = strings.Join([]string{
	"header before the lines block is ignored",
	"*LL   2",
	"   Linia: S1   - LINIA KOLEI MIEJSKIEJ",
	"   *TR   2",
	"      S1-A, Pruszków, Pruszków ==> Otwock, kursuje w kierunku Otwock",
	"         *RP   1",
	"            7014  Pruszków PKP, stacja",
	"               *TD   2",
	"                  DP  Dni powszednie",
	"                     *OD   2",
	"                     5.12  S1-001",
	"                     13.45  S1-002  extra",
	"                     #OD",
	"                  SB  Soboty",
	"                     *OD   1",
	"                     6.05  S1-101",
	"                     #OD",
	"               #TD",
	"               *OP   1",
	"                  Rozkład jazdy obowiązuje w dniach: 01.02.2024 - 29.02.2024.",
	"               #OP",
	"         #RP",
	"      S1-B, Otwock, Otwock ==> Pruszków, kursuje w kierunku Pruszków",
	"         *RP   1",
	"            7015  Otwock PKP",
	"               *TD   1",
	"                  DP  Dni powszednie",
	"                     *OD   1",
	"                     23.59  S1-201",
	"                     #OD",
	"               #TD",
	"               *OP   0",
	"               #OP",
	"         #RP",
	"   #TR",
	"   *WK   0",
	"   #WK",
	"   Linia: S2   - LINIA KOLEI MIEJSKIEJ",
	"   *TR   1",
	"      S2-A, Sulejówek, Sulejówek ==> Błonie, kursuje w kierunku Błonie",
	"         *RP   1",
	"            7016  Sulejówek Miłosna",
	"               *TD   1",
	"                  DP  Dni powszednie",
	"                     *OD   1",
	"                     4.40  S2-001",
	"                     #OD",
	"               #TD",
	"               *OP   2",
	"                  ROZKŁAD WAŻNY od 01.03.2024",
	"                  uwagi: brak",
	"               #OP",
	"         #RP",
	"   #TR",
	"   *WK   0",
	"   #WK",
	"#LL",
}, "\n")
