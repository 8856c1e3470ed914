package domain

// ManufacturingState is the production stage of a work order, bundle or slab.
// Bundles and slabs only ever occupy the subset between Sawed and Completed.
type ManufacturingState string

const (
	StateNotStarted                   ManufacturingState = "not_started"
	StateMaterialRequisitionSubmitted ManufacturingState = "material_requisition_submitted"
	StateMaterialRequisitioned        ManufacturingState = "material_requisitioned"
	StateTrimmingDataSubmitted        ManufacturingState = "trimming_data_submitted"
	StateTrimmed                      ManufacturingState = "trimmed"
	StateSawingDataSubmitted          ManufacturingState = "sawing_data_submitted"
	StateSawed                        ManufacturingState = "sawed"
	StateFillingDataSubmitted         ManufacturingState = "filling_data_submitted"
	StateFilled                       ManufacturingState = "filled"
	StatePolishingQEFinished          ManufacturingState = "polishing_qe_finished"
	StateCompleted                    ManufacturingState = "completed"
	StateCancelled                    ManufacturingState = "cancelled"
)

// stageRank orders the pipeline states. Cancelled sits outside the forward
// sequence and has no rank.
var stageRank = map[ManufacturingState]int{
	StateNotStarted:                   0,
	StateMaterialRequisitionSubmitted: 1,
	StateMaterialRequisitioned:        2,
	StateTrimmingDataSubmitted:        3,
	StateTrimmed:                      4,
	StateSawingDataSubmitted:          5,
	StateSawed:                        6,
	StateFillingDataSubmitted:         7,
	StateFilled:                       8,
	StatePolishingQEFinished:          9,
	StateCompleted:                    10,
}

// ReachedStage reports whether state has progressed at least as far as the
// given stage (stage ordering: Sawed < Filled < Completed).
func ReachedStage(state, stage ManufacturingState) bool {
	r, ok := stageRank[state]
	if !ok {
		return false
	}
	return r >= stageRank[stage]
}

// Operation names a work order transition. Guard preconditions for every
// operation live in the transition table below rather than in scattered
// branch checks, so the forward-only invariant is data, not prose.
type Operation string

const (
	OpUpdateOrder        Operation = "update_order"
	OpSubmitRequisition  Operation = "submit_requisition"
	OpApproveRequisition Operation = "approve_requisition"
	OpSubmitTrimming     Operation = "submit_trimming"
	OpConfirmTrimmingQE  Operation = "confirm_trimming_qe"
	OpSubmitSawing       Operation = "submit_sawing"
	OpSplitBundle        Operation = "split_bundle"
	OpSubmitFilling      Operation = "submit_filling"
	OpFillingQE          Operation = "filling_qe"
	OpFillingOver        Operation = "filling_over"
	OpPolishingQE        Operation = "polishing_qe"
	OpBundleGradeQE      Operation = "bundle_grade_qe"
	OpPolishingOver      Operation = "polishing_over"
	OpPolishing          Operation = "polishing"
	OpCancel             Operation = "cancel"
	OpDiscardBlock       Operation = "discard_block"
	OpReworkToFilling    Operation = "rework_to_filling"
)

// transitionTable maps each operation to the states it may be applied in.
// Operations whose next state depends on input (SplitBundle, Cancel paths)
// compute it themselves after passing the guard.
var transitionTable = map[Operation][]ManufacturingState{
	OpUpdateOrder: {
		StateNotStarted, StateMaterialRequisitionSubmitted, StateMaterialRequisitioned,
		StateTrimmingDataSubmitted, StateTrimmed, StateSawingDataSubmitted, StateSawed,
		StateFillingDataSubmitted, StateFilled, StatePolishingQEFinished,
	},
	OpSubmitRequisition:  {StateNotStarted},
	OpApproveRequisition: {StateMaterialRequisitionSubmitted, StateMaterialRequisitioned},
	OpSubmitTrimming:     {StateMaterialRequisitioned},
	OpConfirmTrimmingQE:  {StateTrimmingDataSubmitted},
	OpSubmitSawing:       {StateTrimmed},
	OpSplitBundle:        {StateSawingDataSubmitted},
	OpSubmitFilling:      {StateSawed, StateFilled},
	OpFillingQE:          {StateFillingDataSubmitted, StateFilled},
	OpFillingOver:        {StateFillingDataSubmitted, StateFilled},
	OpPolishingQE:        {StateFilled},
	OpBundleGradeQE:      {StateFilled},
	OpPolishingOver:      {StateFilled},
	OpPolishing:          {StatePolishingQEFinished},
	OpCancel:             {StateNotStarted, StateMaterialRequisitionSubmitted, StateMaterialRequisitioned},
	OpDiscardBlock:       {StateTrimmingDataSubmitted, StateSawingDataSubmitted},
	OpReworkToFilling:    {StateFilled},
}

// OperationAllowed reports whether op may be applied to an order currently in
// the given state.
func OperationAllowed(op Operation, state ManufacturingState) bool {
	for _, s := range transitionTable[op] {
		if s == state {
			return true
		}
	}
	return false
}

// guard returns a state-conflict error when op is not applicable in the work
// order's current state.
func (wo *WorkOrder) guard(op Operation) error {
	if !OperationAllowed(op, wo.ManufacturingState) {
		return ErrStateConflict("work order %s in state %q does not allow operation %q",
			wo.OrderNumber, wo.ManufacturingState, op)
	}
	return nil
}
