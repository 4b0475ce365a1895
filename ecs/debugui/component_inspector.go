package debugui

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hearth/ecs"
)

var componentBaseType = reflect.TypeFor[ecs.ComponentBase]()

// FieldInfo is one field the inspector shows. Type is the element type for
// pointer fields.
type FieldInfo struct {
	Name    string
	Index   int
	Type    reflect.Type
	Pointer bool
}

// fieldsByType caches Fields results per struct type.
var fieldsByType sync.Map

// Fields returns the exported fields of struct type t in declaration order,
// without the embedded ComponentBase. Other kinds have no fields.
func Fields(t reflect.Type) []FieldInfo {
	if cached, ok := fieldsByType.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() || (sf.Anonymous && sf.Type == componentBaseType) {
				continue
			}
			info := FieldInfo{Name: sf.Name, Index: i, Type: sf.Type}
			if sf.Type.Kind() == reflect.Pointer {
				info.Type = sf.Type.Elem()
				info.Pointer = true
			}
			fields = append(fields, info)
		}
	}

	actual, _ := fieldsByType.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

func NewComponentInspectorComponent() *ComponentInspectorComponent {
	return &ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(r *ecs.Registry, selectedEntityID ecs.EntityID) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityID = selectedEntityID

	if ci.selectedEntityID == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity, ok := r.Lookup(ci.selectedEntityID)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d not found", ci.selectedEntityID))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.ID()))
	imgui.Text(fmt.Sprintf("Enabled: %t", entity.Enabled()))
	imgui.Separator()

	for _, compType := range entity.Types() {
		component := entity.Component(compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(component ecs.Component) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	for _, field := range Fields(val.Type()) {
		ci.renderField(field.Name, fieldValue(val, field), field)
	}
}

func fieldValue(val reflect.Value, field FieldInfo) reflect.Value {
	fieldVal := val.Field(field.Index)
	if field.Pointer && !fieldVal.IsNil() {
		fieldVal = fieldVal.Elem()
	}
	return fieldVal
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.Pointer && val.Kind() == reflect.Pointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			SetFieldValue(val, v)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			SetFieldValue(val, v)
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			SetFieldValue(val, v)
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			SetFieldValue(val, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			SetFieldValue(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range Fields(val.Type()) {
				ci.renderField(nf.Name, fieldValue(val, nf), nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}

// SetFieldValue converts v to the kind of field and stores it. It reports false
// when the field is not settable or v cannot be converted.
func SetFieldValue(field reflect.Value, v any) bool {
	if !field.CanSet() {
		return false
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(v)
		if !ok || field.OverflowInt(n) {
			return false
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(v)
		if !ok || n < 0 || field.OverflowUint(uint64(n)) {
			return false
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		switch f := v.(type) {
		case float32:
			field.SetFloat(float64(f))
		case float64:
			field.SetFloat(f)
		default:
			return false
		}
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return false
		}
		field.SetBool(b)
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return false
		}
		field.SetString(s)
	default:
		return false
	}
	return true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
