package service

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"storefront/pkg/domain/model"
)

var (
	reportFirstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan"}
	reportLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson"}
	reportCountries  = []model.Country{model.US, model.UK, model.DE, model.JP, model.FR, model.AU, model.CA, model.IT, model.IN, model.NZ}
)

const (
	minReportRecords = 15
	reportRecordSpan = 5
	maxVarianceCents = 2000
)

// ReportGenerator produces the admin panel's demo sales report. The data is synthetic.
type ReportGenerator interface {
	Generate() model.SalesReport
}

func NewReportGenerator(catalog *model.Catalog, rnd *rand.Rand, now func() time.Time) ReportGenerator {
	if now == nil {
		now = time.Now
	}
	return &reportGenerator{catalog: catalog, rnd: rnd, now: now}
}

type reportGenerator struct {
	catalog *model.Catalog
	now     func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func (g *reportGenerator) Generate() model.SalesReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	products := g.catalog.Products()
	count := minReportRecords + g.rnd.Intn(reportRecordSpan)

	records := make([]model.SalesRecord, 0, count)
	for i := 1; i <= count && len(products) > 0; i++ {
		p := products[g.rnd.Intn(len(products))]
		records = append(records, model.SalesRecord{
			SerialNo:     i,
			CustomerName: reportFirstNames[g.rnd.Intn(len(reportFirstNames))] + " " + reportLastNames[g.rnd.Intn(len(reportLastNames))],
			ItemNo:       strings.ToUpper(p.ID),
			AmountCents:  p.PriceCents + g.rnd.Int63n(maxVarianceCents),
			Country:      reportCountries[g.rnd.Intn(len(reportCountries))],
		})
	}

	return model.SalesReport{GeneratedAt: g.now().UTC(), Records: records}
}
