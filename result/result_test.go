package result

import "testing"

func TestComplianceStatus(t *testing.T) {
	if ComplianceStatus(1e-4) != Compliant {
		t.Error("exactly at threshold should be COMPLIANT")
	}
	if ComplianceStatus(1.0001e-4) != NonCompliant {
		t.Error("just above threshold should be NON-COMPLIANT")
	}
	if ComplianceStatus(0) != Compliant {
		t.Error("zero risk should be COMPLIANT")
	}
}

func TestPercentilesValid(t *testing.T) {
	ok := Percentiles{P5: 0.01, P50: 0.05, P95: 0.1}
	if !ok.Valid() {
		t.Error("expected valid ordering to pass")
	}
	bad := Percentiles{P5: 0.2, P50: 0.05, P95: 0.1}
	if bad.Valid() {
		t.Error("expected out-of-order percentiles to fail validation")
	}
}

func TestFailureSentinel(t *testing.T) {
	r := Failure("s1", "SiteA", "InvalidParameter", "bad hockey stick")
	if r.Compliance != Failed {
		t.Errorf("Compliance = %v, want Failed", r.Compliance)
	}
	if r.ErrorKind != "InvalidParameter" || r.ErrorMessage != "bad hockey stick" {
		t.Errorf("unexpected error fields: %+v", r)
	}
	if r.PInfection.Valid() {
		t.Error("NaN percentiles should not report as Valid")
	}
}
