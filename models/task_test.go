package models

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestInputTags_MaxMatchesMaxDescriptionLength(t *testing.T) {
	want := "max=" + strconv.Itoa(MaxDescriptionLength)

	for _, input := range []any{CreateTaskInput{}, UpdateTaskInput{}} {
		typ := reflect.TypeOf(input)
		field, ok := typ.FieldByName("Description")
		if !ok {
			t.Fatalf("%s has no Description field", typ.Name())
		}

		rules := strings.Split(field.Tag.Get("validate"), ",")
		found := false
		for _, rule := range rules {
			if rule == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%s.Description validate tag = %q, want it to contain %q", typ.Name(), field.Tag.Get("validate"), want)
		}
	}
}

func TestTask_View(t *testing.T) {
	task := Task{ID: 7, Description: "Copy me", IsCompleted: true}

	view := task.View()

	if view.ID != task.ID || view.Description != task.Description || view.IsCompleted != task.IsCompleted {
		t.Errorf("View() = %+v, want fields of %+v", view, task)
	}
	if !view.CreatedDate.Equal(task.CreatedDate) {
		t.Errorf("View().CreatedDate = %v, want %v", view.CreatedDate, task.CreatedDate)
	}
}
