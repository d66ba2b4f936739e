/*
The package gsm7 implements the GSM 7-bit default alphabet and the packing of septets into octets as it is used
in the user data of SMS PDUs. This implementation is based on:
  [ALPHA] 3GPP TS 23.038 V16.0.0 (2020-07)
  [TL]    3GPP TS 23.040 V16.0.0 (2020-07)

The relevant chapters are 6.1.2.1 and 6.2.1 in [ALPHA] and 9.2.3.24 in [TL].

Abbreviations:
PDU: Protocol Data Unit
UDH: User Data Header
*/
package gsm7
