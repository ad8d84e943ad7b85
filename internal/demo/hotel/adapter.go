package hotel

import (
	"fmt"

	"github.com/aipms-go/ontology/pkg/action"
	"github.com/aipms-go/ontology/pkg/ontology"
)

// RegisterOntology implements the domain adapter contract of spec §6:
// register_entity/register_action/register_relationship/
// register_constraint/register_state_machine against registry. store is
// the opaque persistence stand-in handlers close over.
func RegisterOntology(registry *ontology.Registry, store *Store) error {
	registry.RegisterEntity(ontology.Entity{
		Name: "Room",
		Properties: map[string]ontology.Property{
			"room_number": {Name: "room_number", Type: ontology.PropertyString, IsRequired: true},
			"status":      {Name: "status", Type: ontology.PropertyString},
		},
	})
	registry.RegisterEntity(ontology.Entity{
		Name: "Guest",
		Properties: map[string]ontology.Property{
			"name":  {Name: "name", Type: ontology.PropertyString, IsRequired: true},
			"phone": {Name: "phone", Type: ontology.PropertyString},
		},
	})
	registry.RegisterEntity(ontology.Entity{
		Name: "StayRecord",
		Properties: map[string]ontology.Property{
			"status": {Name: "status", Type: ontology.PropertyString},
		},
	})
	registry.RegisterEntity(ontology.Entity{
		Name: "Task",
		Properties: map[string]ontology.Property{
			"status": {Name: "status", Type: ontology.PropertyString},
		},
	})

	if err := registry.RegisterRelationship("Guest", ontology.Relationship{
		Name: "stays", TargetEntity: "StayRecord", Cardinality: ontology.OneToMany, ForeignKey: "guest_id",
	}); err != nil {
		return err
	}
	if err := registry.RegisterRelationship("StayRecord", ontology.Relationship{
		Name: "room", TargetEntity: "Room", Cardinality: ontology.ManyToOne, ForeignKey: "room_id",
	}); err != nil {
		return err
	}

	if err := registry.RegisterStateMachine(ontology.StateMachine{
		Entity:       "Room",
		States:       []string{"vacant_clean", "occupied", "vacant_dirty", "out_of_order"},
		InitialState: "vacant_clean",
		Transitions: []ontology.StateTransition{
			{FromState: "vacant_clean", ToState: "occupied", Trigger: "walkin_checkin"},
			{FromState: "occupied", ToState: "vacant_dirty", Trigger: "checkout"},
			{FromState: "vacant_dirty", ToState: "vacant_clean", Trigger: "mark_cleaned"},
		},
	}); err != nil {
		return err
	}

	registry.RegisterConstraint(ontology.Constraint{
		ID:            "guest_phone_length",
		Entity:        "Guest",
		Action:        "update_guest",
		Type:          ontology.ConstraintProperty,
		Severity:      ontology.SeverityError,
		ConditionCode: "size(param.phone) == 11",
		ErrorMessage:  "phone must be exactly 11 digits",
	})

	registry.RegisterConstraint(ontology.Constraint{
		ID:            "task_must_be_pending",
		Entity:        "Task",
		Action:        "assign_task",
		Type:          ontology.ConstraintState,
		Severity:      ontology.SeverityError,
		ConditionCode: "state.status == 'pending'",
		ErrorMessage:  "task is not pending",
	})

	if err := registry.RegisterAction("Room", ontology.Action{
		Name:                 "walkin_checkin",
		Category:             ontology.ActionMutation,
		Description:          "Walk-in guest check-in",
		RequiresConfirmation: true,
		AllowedRoles:         map[string]struct{}{"receptionist": {}, "manager": {}},
		UIRequiredFields:     []string{"room_number", "guest_name", "guest_phone", "expected_check_out"},
		RiskLevel:            ontology.RiskLow,
		SemanticCategory:     "checkin_type",
		SearchKeywords:       []string{"散客", "直接入住", "walk-in"},
		GlossaryExamples: []ontology.GlossaryExample{
			{Correct: "'散客入住，王六儿' → guest_name='王六儿'", Incorrect: "'散客入住，王六儿' → guest_name='散客'"},
		},
		ParamsModel: WalkinCheckinParamsModel{},
		Handler:     handleWalkinCheckin(store),
	}); err != nil {
		return err
	}

	if err := registry.RegisterAction("Guest", ontology.Action{
		Name:             "update_guest",
		Category:         ontology.ActionMutation,
		Description:      "Update guest contact details",
		AllowedRoles:     map[string]struct{}{"receptionist": {}, "manager": {}},
		UIRequiredFields: []string{"guest_id"},
		RiskLevel:        ontology.RiskLow,
		ParamsModel:      UpdateGuestParamsModel{},
		Handler:          handleUpdateGuest(store),
	}); err != nil {
		return err
	}

	if err := registry.RegisterAction("Task", ontology.Action{
		Name:             "create_task",
		Category:         ontology.ActionMutation,
		Description:      "Create a cleaning or maintenance task",
		AllowedRoles:     map[string]struct{}{"receptionist": {}, "manager": {}, "cleaner": {}},
		UIRequiredFields: []string{"room_number", "task_type"},
		RiskLevel:        ontology.RiskLow,
		Handler:          handleCreateTask(store),
	}); err != nil {
		return err
	}

	if err := registry.RegisterAction("Task", ontology.Action{
		Name:             "assign_task",
		Category:         ontology.ActionMutation,
		Description:      "Assign a task to a staff member",
		AllowedRoles:     map[string]struct{}{"manager": {}},
		UIRequiredFields: []string{"task_id", "assignee_id"},
		RiskLevel:        ontology.RiskLow,
		Handler:          handleAssignTask(store),
	}); err != nil {
		return err
	}

	if err := registry.RegisterAction("Task", ontology.Action{
		Name:             "start_task",
		Category:         ontology.ActionMutation,
		Description:      "Mark a task in progress",
		AllowedRoles:     map[string]struct{}{"cleaner": {}, "manager": {}},
		UIRequiredFields: []string{"task_id"},
		RiskLevel:        ontology.RiskLow,
		Handler:          handleStartTask(store),
	}); err != nil {
		return err
	}

	return nil
}

func handleWalkinCheckin(store *Store) ontology.Handler {
	return func(ctx ontology.HandlerContext) (map[string]interface{}, error) {
		p, ok := ctx.Params.(WalkinCheckinParams)
		if !ok {
			return map[string]interface{}{"success": false, "message": "invalid params"}, nil
		}

		guestID := store.NextID("guest")
		stayID := store.NextID("stay")

		store.mu.Lock()
		defer store.mu.Unlock()

		room, ok := store.Rooms[p.RoomNumber]
		if !ok {
			room = &RoomRecord{RoomNumber: p.RoomNumber, Status: "vacant_clean"}
			store.Rooms[p.RoomNumber] = room
		}
		if room.Status != "vacant_clean" {
			return map[string]interface{}{
				"success": false,
				"message": fmt.Sprintf("room %s is not vacant_clean", p.RoomNumber),
			}, nil
		}

		store.Guests[guestID] = &GuestRecord{ID: guestID, Name: p.GuestName, Phone: p.GuestPhone}

		store.Stays[stayID] = &StayRecordRow{
			ID: stayID, GuestID: guestID, RoomNumber: p.RoomNumber,
			Status: "ACTIVE", ExpectedCheckOut: p.ExpectedCheckOut,
		}

		room.Status = "occupied"

		return map[string]interface{}{
			"success":     true,
			"message":     fmt.Sprintf("room %s checked in for %s", p.RoomNumber, p.GuestName),
			"guest_id":    guestID,
			"stay_id":     stayID,
			"room_status": room.Status,
		}, nil
	}
}

func handleUpdateGuest(store *Store) ontology.Handler {
	return func(ctx ontology.HandlerContext) (map[string]interface{}, error) {
		p, ok := ctx.Params.(UpdateGuestParams)
		if !ok {
			return map[string]interface{}{"success": false, "message": "invalid params"}, nil
		}

		store.mu.Lock()
		defer store.mu.Unlock()

		guest, ok := store.Guests[p.GuestID]
		if !ok {
			return map[string]interface{}{"success": false, "message": "guest not found"}, nil
		}
		if p.Phone != "" {
			guest.Phone = p.Phone
		}
		return map[string]interface{}{"success": true, "message": "guest updated"}, nil
	}
}

func handleCreateTask(store *Store) ontology.Handler {
	return func(ctx ontology.HandlerContext) (map[string]interface{}, error) {
		raw, _ := ctx.Params.(map[string]interface{})
		roomNumber := stringField(raw, "room_number")
		taskType := stringField(raw, "task_type")

		taskID := store.NextID("task")

		store.mu.Lock()
		defer store.mu.Unlock()

		store.Tasks[taskID] = &TaskRecord{ID: taskID, RoomNumber: roomNumber, TaskType: taskType, Status: "pending"}

		return map[string]interface{}{"success": true, "message": "task created", "task_id": taskID}, nil
	}
}

func handleAssignTask(store *Store) ontology.Handler {
	return func(ctx ontology.HandlerContext) (map[string]interface{}, error) {
		raw, _ := ctx.Params.(map[string]interface{})
		taskID := stringField(raw, "task_id")
		assigneeID := stringField(raw, "assignee_id")

		store.mu.Lock()
		defer store.mu.Unlock()

		task, ok := store.Tasks[taskID]
		if !ok {
			return map[string]interface{}{"success": false, "message": "task not found"}, nil
		}
		task.AssigneeID = assigneeID
		task.Status = "assigned"
		return map[string]interface{}{"success": true, "message": "task assigned"}, nil
	}
}

func handleStartTask(store *Store) ontology.Handler {
	return func(ctx ontology.HandlerContext) (map[string]interface{}, error) {
		raw, _ := ctx.Params.(map[string]interface{})
		taskID := stringField(raw, "task_id")

		store.mu.Lock()
		defer store.mu.Unlock()

		task, ok := store.Tasks[taskID]
		if !ok {
			return map[string]interface{}{"success": false, "message": "task not found"}, nil
		}
		task.Status = "in_progress"
		return map[string]interface{}{"success": true, "message": "task started"}, nil
	}
}

// NewStateHook builds the action.StateHook this adapter's dispatcher wires
// in: it resolves a Room's current status from store and the target status
// implied by walkin_checkin/checkout, so the guard's state-machine check in
// Dispatch sees real (current_state, target_state) pairs instead of only
// being reachable through a direct guard.Executor.Check call.
func NewStateHook(store *Store) action.StateHook {
	return func(entity, actionName string, params map[string]interface{}) (string, string, bool) {
		if entity != "Room" {
			return "", "", false
		}
		roomNumber := stringField(params, "room_number")
		current := "vacant_clean"
		if r, ok := store.Rooms[roomNumber]; ok {
			current = r.Status
		}
		switch actionName {
		case "walkin_checkin":
			return current, "occupied", true
		case "checkout":
			return current, "vacant_dirty", true
		default:
			return "", "", false
		}
	}
}

// NewEntityStateHook builds the action.EntityStateHook this adapter's
// dispatcher wires in: it resolves a read-only state.* view for whichever
// entity a mutation targets, so condition_code constraints that reference
// state.* (like task_must_be_pending) are checkable through the real
// Dispatch path, not only through a hand-built guard.Input in a test.
func NewEntityStateHook(store *Store) action.EntityStateHook {
	return func(entity, actionName string, params map[string]interface{}) map[string]interface{} {
		switch entity {
		case "Task":
			taskID := stringField(params, "task_id")
			task, ok := store.Tasks[taskID]
			if !ok {
				return nil
			}
			return map[string]interface{}{"status": task.Status}
		case "Room":
			roomNumber := stringField(params, "room_number")
			room, ok := store.Rooms[roomNumber]
			if !ok {
				return nil
			}
			return map[string]interface{}{"status": room.Status}
		default:
			return nil
		}
	}
}
