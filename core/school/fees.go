package school

import "context"

// FeeStatement is derived from the student's FeeRecords, the authoritative fee source.
type FeeStatement struct {
	StudentID   string      `json:"studentId"`
	Total       int         `json:"total"`
	Paid        int         `json:"paid"`
	Balance     int         `json:"balance"`
	PercentPaid int         `json:"percentPaid"`
	Cleared     bool        `json:"cleared"`
	Records     []FeeRecord `json:"records"`
}

func (svc *Service) FeeStatement(ctx context.Context, studentID string) (FeeStatement, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return FeeStatement{}, err
	}
	if _, ok := ds.student(studentID); !ok {
		return FeeStatement{}, ErrStudentNotFound
	}
	return feeStatement(ds, studentID), nil
}

func feeStatement(ds Dataset, studentID string) FeeStatement {
	st := FeeStatement{StudentID: studentID, Records: make([]FeeRecord, 0)}
	for _, f := range ds.Fees {
		if f.StudentID != studentID {
			continue
		}
		st.Records = append(st.Records, f)
		st.Total += f.Amount
		if f.Status == FeePaid {
			st.Paid += f.Amount
		}
	}
	st.Balance = st.Total - st.Paid
	st.Cleared = st.Balance == 0
	if st.Total == 0 {
		st.PercentPaid = 100
	} else {
		st.PercentPaid = roundedMean(st.Paid*100, st.Total)
	}
	return st
}
