package casedocstest

import (
	"fmt"
	"time"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/pkg/authz"
)

type CaseOption func(*casedocs.Case)

func WithCaseRef(ref casedocs.CaseRef) CaseOption {
	return func(c *casedocs.Case) {
		c.Ref = ref
	}
}

func WithCaseSurveyor(code casedocs.SurveyorCode) CaseOption {
	return func(c *casedocs.Case) {
		c.SurveyorCode = code
	}
}

func WithCaseStatus(status casedocs.CaseStatus) CaseOption {
	return func(c *casedocs.Case) {
		c.Status = status
	}
}

func WithCaseCreated(created time.Time) CaseOption {
	return func(c *casedocs.Case) {
		c.Created = created
	}
}

func WithCaseUpdated(updated time.Time) CaseOption {
	return func(c *casedocs.Case) {
		c.Updated = updated
	}
}

var caseStates = []casedocs.CaseStatus{
	casedocs.CaseStatusOpen,
	casedocs.CaseStatusClosed,
}

// CaseRef returns a random sysref-like reference, e.g. "C482913".
func (g *DataGen) CaseRef() casedocs.CaseRef {
	return casedocs.CaseRef(fmt.Sprintf("C%06d", g.Number(1, 999999)))
}

func (g *DataGen) SurveyorCode() casedocs.SurveyorCode {
	return casedocs.SurveyorCode(fmt.Sprintf("S%03d", g.Number(1, 999)))
}

func (g *DataGen) Surveyor() authz.Principal {
	return authz.NewSurveyor(string(g.SurveyorCode()), g.Name())
}

func (g *DataGen) Case(options ...CaseOption) *casedocs.Case {
	aCase := casedocs.Case{
		Ref:          g.CaseRef(),
		SurveyorCode: g.SurveyorCode(),
		Address:      g.Address().Address,
		Status:       caseStates[g.Number(0, len(caseStates)-1)],
		Created:      g.now,
		Updated:      g.now,
	}

	for _, o := range options {
		o(&aCase)
	}

	return &aCase
}
